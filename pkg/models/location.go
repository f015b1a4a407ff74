package models

type Location struct {
	ID   int      `json:"id" db:"id"`
	Name string   `json:"name" db:"name"`
	Lat  *float64 `json:"lat,omitempty" db:"lat"`
	Lon  *float64 `json:"lon,omitempty" db:"lon"`
}

type Person struct {
	ID         int    `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	LocationID *int   `json:"location_id" db:"location_id"`
}

type Site struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	OrganisationID *int   `json:"organisation_id" db:"organisation_id"`
	LocationID     *int   `json:"location_id" db:"location_id"`
}

type Organisation struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

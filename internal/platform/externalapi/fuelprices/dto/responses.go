// Package dto defines data transfer objects for the fuel prices backend API responses.
package dto

import openapi_types "github.com/oapi-codegen/runtime/types"

// DateRangeResponse represents the JSON response from GET /dateRange/{dataType}.
type DateRangeResponse struct {
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
}

// FuelPrice is a single fuel type price point.
type FuelPrice struct {
	FuelType string  `json:"fuel_type"`
	Price    float64 `json:"price"`
}

// DailyCountryResponse is one element of the GET /data/daily/country array.
type DailyCountryResponse struct {
	Date openapi_types.Date `json:"date"`
	Data []FuelPrice        `json:"data"`
}

// Prefecture is one prefecture entry of a country snapshot.
type Prefecture struct {
	Prefecture string      `json:"prefecture"`
	Data       []FuelPrice `json:"data,omitempty"`
}

// CountryResponse represents the JSON response from GET /data/country/{date}.
type CountryResponse struct {
	Prefectures []Prefecture `json:"prefectures"`
}

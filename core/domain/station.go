package domain

// Station is one entry of the upstream locations directory. The core only
// consumes the Code to NLC mapping; the remaining flags are carried so the
// cached payload round-trips intact.
type Station struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	NLC     string `json:"nlc"`
	IsFGW   bool   `json:"isfgw"`
	IsGroup bool   `json:"isgroup"`
	IsAlias bool   `json:"isalias"`
	TOD     bool   `json:"tod"`
}

// StationResponse is the upstream locations endpoint payload.
type StationResponse struct {
	Environment string    `json:"environment"`
	Data        []Station `json:"data"`
}

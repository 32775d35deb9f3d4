package model

// ContractRef identifies a deployed contract instance. CodeHash is an
// optional integrity pin; when present the query endpoint skips an extra
// round trip to look it up.
type ContractRef struct {
	Address  string `json:"address"`
	CodeHash string `json:"code_hash,omitempty"`
}

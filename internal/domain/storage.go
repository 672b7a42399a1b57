package domain

// StorageBin is a single warehouse bin holding stock of a material.
type StorageBin struct {
	Bin      string `json:"bin"`
	Quantity int    `json:"quantity"`
}

// StorageGroup collects the bins of one (storage location, storage type)
// pair, in the order the MES reported them.
type StorageGroup struct {
	Location string       `json:"location"`
	Type     string       `json:"type"`
	Bins     []StorageBin `json:"bins"`
}

package domain

// RequestStatus is the lifecycle state of a material request. Requests are
// created and mutated by the station ingestion process; this system only
// reads them.
type RequestStatus string

const (
	StatusCanceled  RequestStatus = "Canceled"
	StatusDelivered RequestStatus = "Delivered"
)

// TerminalStatuses are the states that remove a request from the board.
// Any other status is considered active and displayable.
var TerminalStatuses = []string{string(StatusCanceled), string(StatusDelivered)}

// MaterialType is the SAP material type code carried on a request.
type MaterialType string

const (
	TypeComponent    MaterialType = "ROH"
	TypeSemiFinished MaterialType = "HALB"
)

// MaterialTypes lists the type codes the board can filter on, in display order.
var MaterialTypes = []MaterialType{TypeComponent, TypeSemiFinished}

// TypeLabel returns the Spanish display label for a material type code.
// Unknown codes fall back to the raw code.
func TypeLabel(t MaterialType) string {
	switch t {
	case TypeComponent:
		return "Componentes"
	case TypeSemiFinished:
		return "Semiterminados"
	default:
		return string(t)
	}
}

// MaterialRequest is a pending request as it travels over the wire between
// the API and the board. RequestTime stays a string on purpose: the stored
// timestamp carries a UTC suffix that cannot be trusted, and the board
// reinterprets its literal calendar fields (see timeband.Normalize).
type MaterialRequest struct {
	ID           string  `json:"_id"`
	PlantCode    string  `json:"plantCode"`
	SAPMaterial  string  `json:"sapMaterial"`
	StationName  string  `json:"stationName"`
	MACAddress   string  `json:"macAddress"`
	RequestTime  string  `json:"requestTime"`
	Quantity     int     `json:"quantity"`
	Type         string  `json:"type"`
	Area         string  `json:"area"`
	ResponseTime *string `json:"responseTime,omitempty"`
	Status       string  `json:"status"`
}

// Terminal reports whether the request has reached a state that excludes it
// from the board.
func (r MaterialRequest) Terminal() bool {
	return r.Status == string(StatusCanceled) || r.Status == string(StatusDelivered)
}

package dto

// WithdrawalTermRequest is the form submitted at the gate. Field rules that
// depend on normalisation (CPF length, seals vs. HasSeals) are checked by the
// term service after upper-casing and formatting.
type WithdrawalTermRequest struct {
	ClientName           string  `json:"clientName"`
	DriverName           string  `json:"driverName"`
	DriverCPF            string  `json:"driverCpf"`
	Carrier              string  `json:"carrier"`
	TruckPlate           string  `json:"truckPlate"`
	Date                 string  `json:"date"`
	Time                 string  `json:"time"`
	SealsQuantity        string  `json:"sealsQuantity"`
	LabelsQuantity       string  `json:"labelsQuantity"`
	HasSeals             bool    `json:"hasSeals"`
	SampleLabelDelivered bool    `json:"sampleLabelDelivered"`
	OrderNumber          string  `json:"orderNumber"`
	Lote                 string  `json:"lote"`
	ProductName          string  `json:"productName"`
	Tonelada             string  `json:"tonelada"`
	HistoryID            *string `json:"historyId"   validate:"omitempty,uuid"`
	QueueItemID          *string `json:"queueItemId" validate:"omitempty,uuid"`
}

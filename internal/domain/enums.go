package domain

// ReportType selects how a report's fields are computed.
type ReportType string

const (
	ReportTypeManual       ReportType = "MANUAL"
	ReportTypeAccount      ReportType = "CONTA_ESPECIFICA"
	ReportTypeConsolidated ReportType = "CONSOLIDADO_EMPRESA"
	ReportTypePeriod       ReportType = "PERIODO"
	ReportTypeReceipts     ReportType = "RECEBIMENTOS"
)

// ValidReportTypes lists every report type accepted on creation.
var ValidReportTypes = map[ReportType]bool{
	ReportTypeManual:       true,
	ReportTypeAccount:      true,
	ReportTypeConsolidated: true,
	ReportTypePeriod:       true,
	ReportTypeReceipts:     true,
}

// PaymentMethod identifies how a debt was settled.
type PaymentMethod string

const (
	PaymentMethodPix      PaymentMethod = "PIX"
	PaymentMethodCredit   PaymentMethod = "CREDITO"
	PaymentMethodDebit    PaymentMethod = "DEBITO"
	PaymentMethodBoleto   PaymentMethod = "BOLETO"
	PaymentMethodCash     PaymentMethod = "DINHEIRO"
	PaymentMethodTransfer PaymentMethod = "TRANSFERENCIA"
)

// ValidPaymentMethods lists the accepted payment methods.
var ValidPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodPix:      true,
	PaymentMethodCredit:   true,
	PaymentMethodDebit:    true,
	PaymentMethodBoleto:   true,
	PaymentMethodCash:     true,
	PaymentMethodTransfer: true,
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ATIVO"
	ContractStatusSettled   ContractStatus = "QUITADO"
	ContractStatusCancelled ContractStatus = "CANCELADO"
)

// ValidContractStatuses lists the accepted contract statuses.
var ValidContractStatuses = map[ContractStatus]bool{
	ContractStatusActive:    true,
	ContractStatusSettled:   true,
	ContractStatusCancelled: true,
}

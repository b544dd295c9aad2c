package domain

// ReportData is the structured underwriting review report (保函业务简式评审报告,
// 2024 revision). Every leaf is a string; an empty string means "unknown"
// and "cleared" alike.
type ReportData struct {
	GuaranteeInfo  GuaranteeInfo    `json:"guaranteeInfo"`
	ClientInfo     ClientInfo       `json:"clientInfo"`
	Shareholders   []ShareholderRow `json:"shareholders"`
	Financials     Financials       `json:"financials"`
	Litigation     string           `json:"litigation"`
	Performance    string           `json:"performance"`
	ProjectDetails ProjectDetails   `json:"projectDetails"`
	OtherMatters   string           `json:"otherMatters"`
	Analysis       string           `json:"analysis"`
	Signatures     *Signatures      `json:"signatures,omitempty"`
}

// GuaranteeInfo holds the 保函要素 section.
type GuaranteeInfo struct {
	ProjectName        string `json:"projectName"`
	Beneficiary        string `json:"beneficiary"`
	ProductType        string `json:"productType"`
	GuaranteeNature    string `json:"guaranteeNature"`
	IsHousing          string `json:"isHousing"`
	Amount             string `json:"amount"`
	Term               string `json:"term"`
	Rate               string `json:"rate"`
	FeeNote            string `json:"feeNote"`
	OutstandingBalance string `json:"outstandingBalance"`
	Bank               string `json:"bank"`
	BankFee            string `json:"bankFee"`
	ChargeMethod       string `json:"chargeMethod"`
}

// ClientInfo holds the applicant profile (基本情况).
type ClientInfo struct {
	Name           string `json:"name"`
	Established    string `json:"established"`
	Nature         string `json:"nature"`
	RegCapital     string `json:"regCapital"`
	PaidCapital    string `json:"paidCapital"`
	Scope          string `json:"scope"`
	Qualifications string `json:"qualifications"`
}

type ShareholderRow struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Ratio      string `json:"ratio"`
	Method     string `json:"method"`
	Controller string `json:"controller"`
	Note       string `json:"note"`
}

type FinancialRow struct {
	Item     string `json:"item"`
	YearLast string `json:"yearLast"`
	YearCurr string `json:"yearCurr"`
	Change   string `json:"change"`
	Value    string `json:"value"`
	Note     string `json:"note"`
}

// Financials holds the twelve fixed financial rows and the credit footer.
type Financials struct {
	TotalAssets         FinancialRow `json:"totalAssets"`
	Receivables         FinancialRow `json:"receivables"`
	Inventory           FinancialRow `json:"inventory"`
	NetAssets           FinancialRow `json:"netAssets"`
	TotalLiabilities    FinancialRow `json:"totalLiabilities"`
	AssetLiabRatio      FinancialRow `json:"assetLiabRatio"`
	Revenue             FinancialRow `json:"revenue"`
	OperatingProfit     FinancialRow `json:"operatingProfit"`
	NetProfit           FinancialRow `json:"netProfit"`
	ReceivablesTurnover FinancialRow `json:"receivablesTurnover"`
	InventoryTurnover   FinancialRow `json:"inventoryTurnover"`
	TaxRevenue          FinancialRow `json:"taxRevenue"`
	CreditNotes         string       `json:"creditNotes"`
}

// ProjectDetails holds the project-context section (项目情况).
type ProjectDetails struct {
	Owner        string `json:"owner"`
	Funding      string `json:"funding"`
	Location     string `json:"location"`
	Term         string `json:"term"`
	BidAmount    string `json:"bidAmount"`
	LimitPrice   string `json:"limitPrice"`
	Scope        string `json:"scope"`
	PaymentTerms string `json:"paymentTerms"`
	Disclosure   string `json:"disclosure"`
}

type Signatures struct {
	Manager     string `json:"manager"`
	DeptHead    string `json:"deptHead"`
	Independent string `json:"independent"`
	Approver    string `json:"approver"`
}

package report

import "github.com/suretydesk/suretydesk/internal/domain"

// accessor returns a pointer to a leaf. With create=false it returns nil when
// an optional parent (signatures) is absent.
type accessor func(r *domain.ReportData, create bool) *string

// Field describes one addressable leaf for rendering and export.
type Field struct {
	Path    Path
	Section string
	Label   string
}

type leaf struct {
	name  string
	label string
	get   accessor
}

type section struct {
	name   string
	label  string
	leaves []leaf
}

func guaranteeLeaf(name, label string, f func(*domain.GuaranteeInfo) *string) leaf {
	return leaf{name, label, func(r *domain.ReportData, _ bool) *string { return f(&r.GuaranteeInfo) }}
}

func clientLeaf(name, label string, f func(*domain.ClientInfo) *string) leaf {
	return leaf{name, label, func(r *domain.ReportData, _ bool) *string { return f(&r.ClientInfo) }}
}

func detailLeaf(name, label string, f func(*domain.ProjectDetails) *string) leaf {
	return leaf{name, label, func(r *domain.ReportData, _ bool) *string { return f(&r.ProjectDetails) }}
}

func signatureLeaf(name, label string, f func(*domain.Signatures) *string) leaf {
	return leaf{name, label, func(r *domain.ReportData, create bool) *string {
		if r.Signatures == nil {
			if !create {
				return nil
			}
			r.Signatures = &domain.Signatures{}
		}
		return f(r.Signatures)
	}}
}

// financialRow describes one of the twelve fixed rows.
type financialRow struct {
	name  string
	label string
	row   func(*domain.Financials) *domain.FinancialRow
}

var financialRows = []financialRow{
	{"totalAssets", "总资产", func(f *domain.Financials) *domain.FinancialRow { return &f.TotalAssets }},
	{"receivables", "应收账款", func(f *domain.Financials) *domain.FinancialRow { return &f.Receivables }},
	{"inventory", "存货", func(f *domain.Financials) *domain.FinancialRow { return &f.Inventory }},
	{"netAssets", "净资产", func(f *domain.Financials) *domain.FinancialRow { return &f.NetAssets }},
	{"totalLiabilities", "总负债", func(f *domain.Financials) *domain.FinancialRow { return &f.TotalLiabilities }},
	{"assetLiabRatio", "资产负债率", func(f *domain.Financials) *domain.FinancialRow { return &f.AssetLiabRatio }},
	{"revenue", "营业收入", func(f *domain.Financials) *domain.FinancialRow { return &f.Revenue }},
	{"operatingProfit", "营业利润", func(f *domain.Financials) *domain.FinancialRow { return &f.OperatingProfit }},
	{"netProfit", "净利润", func(f *domain.Financials) *domain.FinancialRow { return &f.NetProfit }},
	{"receivablesTurnover", "应收账款周转率", func(f *domain.Financials) *domain.FinancialRow { return &f.ReceivablesTurnover }},
	{"inventoryTurnover", "存货周转率", func(f *domain.Financials) *domain.FinancialRow { return &f.InventoryTurnover }},
	{"taxRevenue", "报税收入", func(f *domain.Financials) *domain.FinancialRow { return &f.TaxRevenue }},
}

var financialColumns = []struct {
	name  string
	label string
	col   func(*domain.FinancialRow) *string
}{
	{"item", "项目", func(r *domain.FinancialRow) *string { return &r.Item }},
	{"yearLast", "上年度", func(r *domain.FinancialRow) *string { return &r.YearLast }},
	{"yearCurr", "本年度", func(r *domain.FinancialRow) *string { return &r.YearCurr }},
	{"change", "增减变动", func(r *domain.FinancialRow) *string { return &r.Change }},
	{"value", "当期/实际", func(r *domain.FinancialRow) *string { return &r.Value }},
	{"note", "说明", func(r *domain.FinancialRow) *string { return &r.Note }},
}

var shareholderColumns = []struct {
	name  string
	label string
	col   func(*domain.ShareholderRow) *string
}{
	{"name", "股东名称", func(s *domain.ShareholderRow) *string { return &s.Name }},
	{"amount", "出资金额", func(s *domain.ShareholderRow) *string { return &s.Amount }},
	{"ratio", "股权比例", func(s *domain.ShareholderRow) *string { return &s.Ratio }},
	{"method", "出资方式", func(s *domain.ShareholderRow) *string { return &s.Method }},
	{"controller", "实际控制人", func(s *domain.ShareholderRow) *string { return &s.Controller }},
	{"note", "备注", func(s *domain.ShareholderRow) *string { return &s.Note }},
}

func financialLeaves() []leaf {
	var out []leaf
	for _, row := range financialRows {
		for _, c := range financialColumns {
			out = append(out, leaf{
				name:  row.name + "." + c.name,
				label: row.label + "/" + c.label,
				get: func(r *domain.ReportData, _ bool) *string {
					return c.col(row.row(&r.Financials))
				},
			})
		}
	}
	return append(out, leaf{"creditNotes", "征信情况", func(r *domain.ReportData, _ bool) *string {
		return &r.Financials.CreditNotes
	}})
}

func topLeaf(label string, f func(*domain.ReportData) *string) []leaf {
	return []leaf{{"", label, func(r *domain.ReportData, _ bool) *string { return f(r) }}}
}

// sections lists every fixed leaf in report order. Shareholders are
// addressed separately by index.
var sections = []section{
	{"guaranteeInfo", "保函要素", []leaf{
		guaranteeLeaf("projectName", "项目名称", func(g *domain.GuaranteeInfo) *string { return &g.ProjectName }),
		guaranteeLeaf("beneficiary", "保函受益人", func(g *domain.GuaranteeInfo) *string { return &g.Beneficiary }),
		guaranteeLeaf("productType", "保函品种", func(g *domain.GuaranteeInfo) *string { return &g.ProductType }),
		guaranteeLeaf("guaranteeNature", "担保类型", func(g *domain.GuaranteeInfo) *string { return &g.GuaranteeNature }),
		guaranteeLeaf("isHousing", "是否涉房", func(g *domain.GuaranteeInfo) *string { return &g.IsHousing }),
		guaranteeLeaf("amount", "保函金额", func(g *domain.GuaranteeInfo) *string { return &g.Amount }),
		guaranteeLeaf("term", "保函期限", func(g *domain.GuaranteeInfo) *string { return &g.Term }),
		guaranteeLeaf("rate", "担保费率", func(g *domain.GuaranteeInfo) *string { return &g.Rate }),
		guaranteeLeaf("feeNote", "费率说明", func(g *domain.GuaranteeInfo) *string { return &g.FeeNote }),
		guaranteeLeaf("outstandingBalance", "在保余额", func(g *domain.GuaranteeInfo) *string { return &g.OutstandingBalance }),
		guaranteeLeaf("bank", "合作银行", func(g *domain.GuaranteeInfo) *string { return &g.Bank }),
		guaranteeLeaf("bankFee", "银行手续费", func(g *domain.GuaranteeInfo) *string { return &g.BankFee }),
		guaranteeLeaf("chargeMethod", "收费计算方式", func(g *domain.GuaranteeInfo) *string { return &g.ChargeMethod }),
	}},
	{"clientInfo", "基本情况", []leaf{
		clientLeaf("name", "客户名称", func(c *domain.ClientInfo) *string { return &c.Name }),
		clientLeaf("established", "成立时间", func(c *domain.ClientInfo) *string { return &c.Established }),
		clientLeaf("nature", "企业性质", func(c *domain.ClientInfo) *string { return &c.Nature }),
		clientLeaf("regCapital", "注册资本", func(c *domain.ClientInfo) *string { return &c.RegCapital }),
		clientLeaf("paidCapital", "实缴资本", func(c *domain.ClientInfo) *string { return &c.PaidCapital }),
		clientLeaf("scope", "主营业务范围", func(c *domain.ClientInfo) *string { return &c.Scope }),
		clientLeaf("qualifications", "企业资质/人员", func(c *domain.ClientInfo) *string { return &c.Qualifications }),
	}},
	{"financials", "财务信息", financialLeaves()},
	{"litigation", "涉诉情况", topLeaf("涉诉情况", func(r *domain.ReportData) *string { return &r.Litigation })},
	{"performance", "履约经验", topLeaf("履约经验", func(r *domain.ReportData) *string { return &r.Performance })},
	{"projectDetails", "项目情况", []leaf{
		detailLeaf("owner", "项目业主", func(d *domain.ProjectDetails) *string { return &d.Owner }),
		detailLeaf("funding", "资金来源", func(d *domain.ProjectDetails) *string { return &d.Funding }),
		detailLeaf("location", "履约地点", func(d *domain.ProjectDetails) *string { return &d.Location }),
		detailLeaf("term", "履约期限", func(d *domain.ProjectDetails) *string { return &d.Term }),
		detailLeaf("bidAmount", "中标金额", func(d *domain.ProjectDetails) *string { return &d.BidAmount }),
		detailLeaf("limitPrice", "最高限价", func(d *domain.ProjectDetails) *string { return &d.LimitPrice }),
		detailLeaf("scope", "建设内容", func(d *domain.ProjectDetails) *string { return &d.Scope }),
		detailLeaf("paymentTerms", "付款方式", func(d *domain.ProjectDetails) *string { return &d.PaymentTerms }),
		detailLeaf("disclosure", "重点披露", func(d *domain.ProjectDetails) *string { return &d.Disclosure }),
	}},
	{"otherMatters", "其他事项", topLeaf("其他事项", func(r *domain.ReportData) *string { return &r.OtherMatters })},
	{"analysis", "A角履约能力分析", topLeaf("A角履约能力分析", func(r *domain.ReportData) *string { return &r.Analysis })},
	{"signatures", "审批意见", []leaf{
		signatureLeaf("manager", "项目经理/B角复核", func(s *domain.Signatures) *string { return &s.Manager }),
		signatureLeaf("deptHead", "部门负责人审批意见", func(s *domain.Signatures) *string { return &s.DeptHead }),
		signatureLeaf("independent", "独立审查人审查意见", func(s *domain.Signatures) *string { return &s.Independent }),
		signatureLeaf("approver", "有权审批人审批意见", func(s *domain.Signatures) *string { return &s.Approver }),
	}},
}

// leafIndex maps a dotted path to its accessor.
var leafIndex = buildIndex()

func buildIndex() map[string]accessor {
	idx := map[string]accessor{}
	for _, s := range sections {
		for _, l := range s.leaves {
			idx[joinPath(s.name, l.name).String()] = l.get
		}
	}
	return idx
}

func joinPath(section, name string) Path {
	if name == "" {
		return Path{section}
	}
	return Path{section, name}
}

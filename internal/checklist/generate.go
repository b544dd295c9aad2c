// Package checklist derives the required document set for a guarantee
// application from its bond category and credit mode.
package checklist

import "github.com/suretydesk/suretydesk/internal/domain"

const (
	GroupBasic            = "basic_group"
	GroupFinancial        = "financial_group"
	GroupProject          = "project_group"
	GroupContract         = "contract_group"
	GroupCounterGuarantee = "counter_guarantee_group"
	GroupSystem           = "system_group"
)

// Generate returns the checklist for the given category and credit mode.
// The result is freshly allocated on every call; callers may mutate it.
func Generate(category domain.BondCategory, mode domain.CreditMode) domain.Checklist {
	var cl domain.Checklist

	cl = appendGroup(cl, GroupBasic, "基础资料 (申请人)",
		required("license", "营业执照复印件", ""),
		required("articles", "公司章程", ""),
		required("legal_id", "法定代表人身份证", ""),
		required("credit_report", "征信报告及授权书", "最近2个月内"),
	)

	cl = appendGroup(cl, GroupFinancial, "财务资料 (申请人)",
		optional("finance_prev_year", "前年度财务报表", "如2022年度审计报告"),
		required("finance_last_year", "上年度财务报表", "如2023年度审计报告"),
		required("finance_current", "近期财务报表", "最近一期月报/季报"),
	)

	if category == domain.BondBid {
		cl = appendGroup(cl, GroupProject, "项目背景资料",
			required("tender_doc", "招标文件/邀请函", "下载版"))
	} else {
		cl = appendGroup(cl, GroupProject, "项目背景资料",
			required("award_notice", "中标通知书/公示截图", ""))
	}

	cl = appendGroup(cl, GroupContract, "合同及履约资料", contractItems(category)...)

	if mode == domain.NonCreditEntity {
		cl = appendGroup(cl, GroupCounterGuarantee, "反担保资料 (非授信企业必填)",
			optional("guarantor_corp_license", "法人反担保-营业执照", ""),
			optional("guarantor_corp_articles", "法人反担保-公司章程", ""),
			optional("guarantor_corp_finance", "法人反担保-近期财报", ""),
			optional("guarantor_person_id", "自然人反担保-身份证", ""),
			optional("guarantor_person_marriage", "自然人反担保-婚姻证明", ""),
			optional("guarantor_person_assets", "自然人反担保-财产清单", "房产证/车辆登记证等"),
			optional("guarantor_person_credit", "自然人反担保-征信报告", ""),
			optional("collateral_cert", "抵质押物权证复印件", "原件核对后复印"),
		)
	}

	cl = appendGroup(cl, GroupSystem, "系统流程附件",
		optional("application_form", "业务申请书/审批表", ""))

	return cl
}

func contractItems(category domain.BondCategory) []domain.ChecklistItem {
	var items []domain.ChecklistItem
	switch category {
	case domain.BondBid:
		return nil
	case domain.BondQuality:
		items = append(items,
			required("completion_cert", "竣工验收证明/试车合格证", ""),
			required("main_contract", "主合同", "关注质保期条款"),
		)
	case domain.BondMigrantWorker:
		items = append(items,
			required("construction_contract", "施工主合同", "关注工资支付条款"),
			optional("wage_agreement", "农民工工资专户协议", ""),
		)
	default:
		items = append(items, required("main_contract", "主合同", "已签或草稿"))
	}
	return append(items, optional("past_performance", "过往业绩清单及合同", "不少于2份"))
}

// appendGroup drops groups with no items.
func appendGroup(cl domain.Checklist, id, title string, items ...domain.ChecklistItem) domain.Checklist {
	if len(items) == 0 {
		return cl
	}
	return append(cl, domain.ChecklistGroup{ID: id, Title: title, Items: items})
}

func required(id, label, desc string) domain.ChecklistItem {
	return domain.ChecklistItem{ID: id, Label: label, Description: desc, Required: true}
}

func optional(id, label, desc string) domain.ChecklistItem {
	return domain.ChecklistItem{ID: id, Label: label, Description: desc}
}

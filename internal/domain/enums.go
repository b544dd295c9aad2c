package domain

import (
	"fmt"
	"strings"
)

type BondCategory string

const (
	BondBid            BondCategory = "BID"
	BondPerformance    BondCategory = "PERFORMANCE"
	BondAdvancePayment BondCategory = "ADVANCE_PAYMENT"
	BondQuality        BondCategory = "QUALITY"
	BondMigrantWorker  BondCategory = "MIGRANT_WORKER"
)

// BondCategories lists every category in display order.
var BondCategories = []BondCategory{
	BondBid, BondPerformance, BondAdvancePayment, BondQuality, BondMigrantWorker,
}

var bondCategoryLabels = map[BondCategory]string{
	BondBid:            "投标保函",
	BondPerformance:    "履约保函",
	BondAdvancePayment: "预付款保函",
	BondQuality:        "质量保函",
	BondMigrantWorker:  "农民工工资支付保函",
}

var bondCategoryDescriptions = map[BondCategory]string{
	BondBid:            "用于投标过程中，保证投标人中标后履行签约义务。",
	BondPerformance:    "保证合同义务的履行，保障受益人权益。",
	BondAdvancePayment: "保证承包人正确使用预付款，按约施工。",
	BondQuality:        "保证工程或产品质量符合合同约定标准。",
	BondMigrantWorker:  "保障农民工工资按时足额支付，防止欠薪。",
}

// Valid reports whether c is one of the known bond categories.
func (c BondCategory) Valid() bool {
	_, ok := bondCategoryLabels[c]
	return ok
}

// Label returns the display name used on the report header.
func (c BondCategory) Label() string {
	if l, ok := bondCategoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c BondCategory) Description() string {
	return bondCategoryDescriptions[c]
}

// ParseBondCategory accepts the enum name in any case, with '-' or '_' separators.
func ParseBondCategory(s string) (BondCategory, error) {
	c := BondCategory(normalizeEnum(s))
	if !c.Valid() {
		return "", fmt.Errorf("unknown bond category %q", s)
	}
	return c, nil
}

// CreditMode states whether the applicant holds a standing credit line.
type CreditMode string

const (
	CreditEntity    CreditMode = "CREDIT"
	NonCreditEntity CreditMode = "NON_CREDIT"
)

func (m CreditMode) Valid() bool {
	return m == CreditEntity || m == NonCreditEntity
}

func (m CreditMode) Label() string {
	switch m {
	case CreditEntity:
		return "授信企业申请"
	case NonCreditEntity:
		return "非授信企业申请"
	default:
		return string(m)
	}
}

// ParseCreditMode accepts CREDIT / NON_CREDIT as well as the longer
// CREDIT_ENTERPRISE / NON_CREDIT_ENTERPRISE spellings.
func ParseCreditMode(s string) (CreditMode, error) {
	n := strings.TrimSuffix(normalizeEnum(s), "_ENTERPRISE")
	m := CreditMode(n)
	if !m.Valid() {
		return "", fmt.Errorf("unknown credit mode %q", s)
	}
	return m, nil
}

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "Draft"
	ProjectReviewing ProjectStatus = "Reviewing"
	ProjectApproved  ProjectStatus = "Approved"
	ProjectRejected  ProjectStatus = "Rejected"
	ProjectCompleted ProjectStatus = "Completed"
)

// ProjectStatuses lists every status in lifecycle order.
var ProjectStatuses = []ProjectStatus{
	ProjectDraft, ProjectReviewing, ProjectApproved, ProjectRejected, ProjectCompleted,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s ProjectStatus) Label() string {
	switch s {
	case ProjectDraft:
		return "草稿"
	case ProjectReviewing:
		return "待评审"
	case ProjectApproved:
		return "已通过"
	case ProjectRejected:
		return "已驳回"
	case ProjectCompleted:
		return "已完成"
	default:
		return string(s)
	}
}

// ParseProjectStatus is case-insensitive.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, v := range ProjectStatuses {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown project status %q", s)
}

type FileStatus string

const (
	FileUploading FileStatus = "uploading"
	FileDone      FileStatus = "done"
	FileError     FileStatus = "error"
)

func normalizeEnum(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	return strings.ReplaceAll(s, "-", "_")
}

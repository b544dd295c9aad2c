package analysis

import (
	"fmt"
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// classifySystemPrompt is completed with the checklist listing.
const classifySystemPrompt = `你是非融资担保业务的资料分类助手。
用户会一次上传多份文件，请依据每份文件的实际内容（标题、公章、关键条款），而不是文件名，判断其所属资料类别。

分类规则：
1. 只能使用下方【资料清单】中的 ID。
2. 营业执照归入 "license"，公司章程归入 "articles"。
3. 财务报表按年度区分：前年度归入 "finance_prev_year"，上年度归入 "finance_last_year"，当期或近期月报/季报归入 "finance_current"。
4. 无法识别或不在清单内的文件，ID 填 "other_materials"。
5. suggestedName 为依据内容生成的规范中文文件名，保留原扩展名，例如 "2023年审计报告.pdf"、"中标通知书.jpg"。

按上传顺序输出 JSON：{"results":[{"originalFileName":"","suggestedName":"","categoryId":""}]}，每份文件一项，不要输出其他内容。

【资料清单】：
%s- ID: "other_materials" | 名称: 其他资料
`

const classifyIntro = "请分析以下文件，并返回分类结果 JSON："

const extractSystemPrompt = `你是信息提取助手。请综合全部文件，提取项目名称、客户名称、保函金额和受益人。
输出 JSON：{"projectName":"","customerName":"","amount":"","beneficiary":""}。
找不到的字段省略或留空，不要杜撰。所有值均为字符串。`

const extractIntro = "请阅读以下所有业务文件，提取关键项目信息："

const reportSystemPrompt = "你是专业的保函业务审查员。只输出 JSON，结构必须与要求完全一致，所有值均为字符串。"

// reportInstructions is formatted with (yearLast, yearCurr, feeDescription).
const reportInstructions = `请作为保函业务评审专家阅读以下文件，提取真实信息，填写《保函业务简式评审报告（2024年修订版）》。

填写原则：
1. 严格依据文件内容，找不到的数据填空字符串，不得杜撰。
2. 财务数据：
   - yearLast（%[1]s）取自上年度审计报告（finance_last_year）。
   - yearCurr（%[2]s）取自近期财务报表（finance_current），月报请注意是否为期末数。
   - value 填 finance_current 的最新一期期末数。
   - change 只填带符号的数字或百分比，如 "+15.2%%"、"-300"，不得出现汉字。
   - note 仅在数据异常或揭示风险时填写（如"亏损严重"、"负债率过高"），正常时留空，不得重复数字。
3. 收费说明："%[3]s"。如有，请优先用于填写保函要素中的费率和收费方式。

analysis（A角履约能力分析）按以下结构撰写，语气专业：
1. 申请人主体、成立年份、所处行业、资质等级、技术能力与履约经验。
2. 项目业主名称、机构性质及其拖欠风险。
3. 资金来源及支付保障措施。
4. 反担保措施及反担保人资产情况。
综上：风险可控性结论，建议开立的金额、保函品种、担保类型、受益人、期限、担保费率与收取方式、银行手续费及是否存储保证金。

输出 JSON 字段：guaranteeInfo{projectName,beneficiary,productType,guaranteeNature,isHousing,amount,term,rate,feeNote,outstandingBalance,bank,bankFee,chargeMethod}，
clientInfo{name,established,nature,regCapital,paidCapital,scope,qualifications}，
shareholders[{name,amount,ratio,method,controller,note}]，
financials{totalAssets,receivables,inventory,netAssets,totalLiabilities,assetLiabRatio,revenue,operatingProfit,netProfit,receivablesTurnover,inventoryTurnover,taxRevenue 每项为 {item,yearLast,yearCurr,change,value,note}，creditNotes}，
litigation，performance，projectDetails{owner,funding,location,term,bidAmount,limitPrice,scope,paymentTerms,disclosure}，otherMatters，analysis。`

func buildClassifySystemPrompt(items []domain.ItemDescriptor) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- ID: %q | 名称: %q", item.ID, item.Label)
		if item.Description != "" {
			fmt.Fprintf(&b, " (说明: %s)", item.Description)
		}
		b.WriteString("\n")
	}
	return fmt.Sprintf(classifySystemPrompt, b.String())
}

func buildReportInstructions(yearLast, yearCurr int, feeDescription string) string {
	fee := strings.TrimSpace(feeDescription)
	if fee == "" {
		fee = "无"
	}
	return fmt.Sprintf(reportInstructions,
		fmt.Sprintf("%d年", yearLast), fmt.Sprintf("%d年", yearCurr), fee)
}

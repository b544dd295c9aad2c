package session

import "github.com/suretydesk/suretydesk/internal/report"

func testForm(project, customer, amount, beneficiary string) report.Overrides {
	return report.Overrides{
		ProjectName:  project,
		CustomerName: customer,
		Amount:       amount,
		Beneficiary:  beneficiary,
	}
}

package domain

// DefaultMIMEType is assumed when a browser or filesystem gives no type.
const DefaultMIMEType = "application/pdf"

// Document is a fully read file ready to be sent to an external capability.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// DocumentFromRecord converts a DONE intake record.
func DocumentFromRecord(f FileRecord) Document {
	return Document{
		Name:     f.Name(),
		MIMEType: FirstNonEmpty(f.MIMEType, DefaultMIMEType),
		Data:     f.Payload,
	}
}

// ItemDescriptor is the flattened checklist entry sent to the classifier.
type ItemDescriptor struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Descriptors flattens the checklist for the classifier prompt.
func (c Checklist) Descriptors() []ItemDescriptor {
	items := c.Items()
	out := make([]ItemDescriptor, len(items))
	for i, item := range items {
		out[i] = ItemDescriptor{ID: item.ID, Label: item.Label, Description: item.Description}
	}
	return out
}

// Classification is one positional classifier result.
type Classification struct {
	OriginalFileName string `json:"originalFileName"`
	SuggestedName    string `json:"suggestedName"`
	CategoryID       string `json:"categoryId"`
}

// BasicInfo is the sparse set of fields the extraction capability may find.
// Empty means not extracted.
type BasicInfo struct {
	ProjectName  string `json:"projectName,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Beneficiary  string `json:"beneficiary,omitempty"`
}

func (b BasicInfo) Empty() bool {
	return b == BasicInfo{}
}

package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/suretydesk/suretydesk/internal/llm"
)

type schema = map[string]interface{}

func stringProps(names ...string) schema {
	props := schema{}
	for _, n := range names {
		props[n] = schema{"type": "string"}
	}
	return props
}

func object(props schema, required ...string) schema {
	s := schema{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var classificationSchema = object(schema{
	"results": schema{
		"type": "array",
		"items": object(
			stringProps("originalFileName", "suggestedName", "categoryId"),
			"categoryId",
		),
	},
}, "results")

var basicInfoSchema = object(stringProps("projectName", "customerName", "amount", "beneficiary"))

var financialRowSchema = object(stringProps("item", "yearLast", "yearCurr", "change", "value", "note"))

var reportSchema = func() schema {
	fin := schema{"creditNotes": schema{"type": "string"}}
	for _, k := range []string{
		"totalAssets", "receivables", "inventory", "netAssets", "totalLiabilities", "assetLiabRatio",
		"revenue", "operatingProfit", "netProfit", "receivablesTurnover", "inventoryTurnover", "taxRevenue",
	} {
		fin[k] = financialRowSchema
	}
	props := stringProps("litigation", "performance", "otherMatters", "analysis")
	props["guaranteeInfo"] = object(stringProps(
		"projectName", "beneficiary", "productType", "guaranteeNature", "isHousing", "amount", "term",
		"rate", "feeNote", "outstandingBalance", "bank", "bankFee", "chargeMethod"))
	props["clientInfo"] = object(stringProps(
		"name", "established", "nature", "regCapital", "paidCapital", "scope", "qualifications"))
	props["shareholders"] = schema{
		"type":  "array",
		"items": object(stringProps("name", "amount", "ratio", "method", "controller", "note")),
	}
	props["financials"] = object(fin)
	props["projectDetails"] = object(stringProps(
		"owner", "funding", "location", "term", "bidAmount", "limitPrice", "scope", "paymentTerms", "disclosure"))
	props["signatures"] = object(stringProps("manager", "deptHead", "independent", "approver"))
	return object(props)
}()

// decodeValidated cleans raw model output, coerces scalar leaves to strings,
// validates the document against s and decodes it into T.
func decodeValidated[T any](raw string, s schema) (T, error) {
	var zero T

	cleaned, err := llm.CleanJSON(raw)
	if err != nil {
		return zero, err
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return zero, fmt.Errorf("%w: %v", llm.ErrInvalidOutput, err)
	}
	doc = coerceScalars(doc)

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(s), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return zero, fmt.Errorf("%w: schema validation error: %v", llm.ErrInvalidOutput, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return zero, fmt.Errorf("%w: %s", llm.ErrInvalidOutput, strings.Join(errs, "; "))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", llm.ErrInvalidOutput, err)
	}
	var out T
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
		return zero, fmt.Errorf("%w: %v", llm.ErrInvalidOutput, err)
	}
	return out, nil
}

// coerceScalars turns numbers and booleans into strings and drops nulls, so
// a model writing 12000 instead of "12000" still fits the report shape.
func coerceScalars(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = coerceScalars(child)
		}
		return t
	case []interface{}:
		out := t[:0]
		for _, child := range t {
			if child != nil {
				out = append(out, coerceScalars(child))
			}
		}
		return out
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "是"
		}
		return "否"
	default:
		return v
	}
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Raymond9734/customer-records/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseCreateCustomer validates an untyped create payload. Every required
// field must be present; optional fields may be absent or null.
func ParseCreateCustomer(input any) (*models.CreateCustomerInput, error) {
	values, report := parseFields(input)
	for _, rule := range customerFields {
		if rule.nullable {
			continue
		}
		if _, ok := values[rule.name]; !ok && report.FieldErrors[rule.name] == nil {
			report.FieldErrors.Add(rule.name, msgRequired)
		}
	}
	if !report.Empty() {
		return nil, models.ErrValidationWithReport(msgInvalidPayload, report)
	}

	return &models.CreateCustomerInput{
		FirstName:   *values[fieldFirstName].Value,
		LastName:    *values[fieldLastName].Value,
		Email:       *values[fieldEmail].Value,
		PhoneNumber: values[fieldPhoneNumber].Value,
		Address:     values[fieldAddress].Value,
		City:        values[fieldCity].Value,
		State:       values[fieldState].Value,
		Country:     values[fieldCountry].Value,
	}, nil
}

// ParseUpdateCustomer validates an untyped partial payload. At least one
// known field must be present.
func ParseUpdateCustomer(input any) (*models.UpdateCustomerInput, error) {
	values, report := parseFields(input)
	if report.Empty() && len(values) == 0 {
		report.FormErrors = append(report.FormErrors, msgAtLeastOneField)
	}
	if !report.Empty() {
		return nil, models.ErrValidationWithReport(msgInvalidPayload, report)
	}

	return &models.UpdateCustomerInput{
		FirstName:   values[fieldFirstName].Value,
		LastName:    values[fieldLastName].Value,
		Email:       values[fieldEmail].Value,
		PhoneNumber: values[fieldPhoneNumber],
		Address:     values[fieldAddress],
		City:        values[fieldCity],
		State:       values[fieldState],
		Country:     values[fieldCountry],
	}, nil
}

// parseFields checks the shape of every known field present in input and
// returns the accepted values keyed by field name. Unknown keys are dropped.
func parseFields(input any) (map[string]models.OptionalString, *models.ValidationReport) {
	report := &models.ValidationReport{
		FormErrors:  []string{},
		FieldErrors: models.FieldErrors{},
	}
	values := make(map[string]models.OptionalString)

	obj, ok := input.(map[string]any)
	if !ok {
		report.FormErrors = append(report.FormErrors, msgExpectedObject)
		return values, report
	}

	for _, rule := range customerFields {
		raw, present := obj[rule.name]
		if !present {
			continue
		}

		if raw == nil {
			if rule.nullable {
				values[rule.name] = models.Null()
			} else {
				report.FieldErrors.Add(rule.name, fmt.Sprintf(msgExpectedString, "null"))
			}
			continue
		}

		s, ok := raw.(string)
		if !ok {
			report.FieldErrors.Add(rule.name, fmt.Sprintf(msgExpectedString, jsonTypeName(raw)))
			continue
		}

		if rule.tag != "" {
			if err := validate.Var(s, rule.tag); err != nil {
				report.FieldErrors.Add(rule.name, ruleMessage(err))
				continue
			}
		}

		// blank optional values are stored as null
		if rule.nullable && strings.TrimSpace(s) == "" {
			values[rule.name] = models.Null()
			continue
		}
		values[rule.name] = models.Some(s)
	}

	return values, report
}

func ruleMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "email":
			return msgInvalidEmail
		case "min":
			return msgMinLengthOne
		}
	}
	return err.Error()
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

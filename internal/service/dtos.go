package service

// Request field names as they appear on the wire
const (
	fieldFirstName   = "firstName"
	fieldLastName    = "lastName"
	fieldEmail       = "email"
	fieldPhoneNumber = "phoneNumber"
	fieldAddress     = "address"
	fieldCity        = "city"
	fieldState       = "state"
	fieldCountry     = "country"
)

// fieldRule describes one accepted customer field
type fieldRule struct {
	name     string
	tag      string // validator tag applied to present, non-null values
	nullable bool
}

// customerFields lists the accepted fields in report order
var customerFields = []fieldRule{
	{name: fieldFirstName, tag: "min=1"},
	{name: fieldLastName, tag: "min=1"},
	{name: fieldEmail, tag: "email"},
	{name: fieldPhoneNumber, nullable: true},
	{name: fieldAddress, nullable: true},
	{name: fieldCity, nullable: true},
	{name: fieldState, nullable: true},
	{name: fieldCountry, nullable: true},
}

const (
	msgInvalidPayload   = "Invalid payload"
	msgRequired         = "Required"
	msgExpectedObject   = "Expected object"
	msgAtLeastOneField  = "At least one field must be provided"
	msgInvalidEmail     = "Invalid email"
	msgMinLengthOne     = "String must contain at least 1 character(s)"
	msgExpectedString   = "Expected string, received %s"
	msgEmailExists      = "Email already exists"
	msgCustomerNotFound = "Customer with id %s not found"
)

package form

// Field names shared by the login and registration schemas.
const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldConfirmPassword = "confirmPassword"
)

const (
	msgEmailInvalid     = "Email is invalid"
	msgPasswordTooShort = "Password must be at least 6 characters"
	msgNameTooShort     = "Name must be at least 2 characters"
	msgPhoneInvalid     = "Phone number is invalid"
	msgPasswordMismatch = "Passwords do not match"
)

// LoginSchema: the username is an email address.
var LoginSchema = Schema{
	{Name: FieldUsername, Rules: []Validator{Required(requiredMsg("Email")), Email(msgEmailInvalid)}},
	{Name: FieldPassword, Rules: []Validator{Required(requiredMsg("Password")), MinLength(6, msgPasswordTooShort)}},
}

var RegisterSchema = Schema{
	{Name: FieldName, Rules: []Validator{Required(requiredMsg("Name")), MinLength(2, msgNameTooShort)}},
	{Name: FieldEmail, Rules: []Validator{Required(requiredMsg("Email")), Email(msgEmailInvalid)}},
	{Name: FieldPassword, Rules: []Validator{Required(requiredMsg("Password")), MinLength(6, msgPasswordTooShort)}},
	{
		Name:  FieldConfirmPassword,
		Rules: []Validator{Required(requiredMsg("Password confirmation"))},
		Cross: []CrossValidator{Matches(FieldPassword, msgPasswordMismatch)},
	},
	{Name: FieldPhone, Rules: []Validator{Required(requiredMsg("Phone number")), Pattern(PhonePattern, msgPhoneInvalid)}},
}

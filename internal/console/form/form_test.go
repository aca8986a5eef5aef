package form_test

import (
	"testing"

	"github.com/aussiebroadwan/botadmin/internal/console/form"
	"github.com/stretchr/testify/require"
)

func TestLoginSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values form.Values
		errs   []string
	}{
		{"valid", form.Values{"username": "ops@example.com", "password": "secret1"}, nil},
		{"missing both", form.Values{}, []string{"username", "password"}},
		{"bad email", form.Values{"username": "ops", "password": "secret1"}, []string{"username"}},
		{"display name email", form.Values{"username": "Ops <ops@example.com>", "password": "secret1"}, []string{"username"}},
		{"short password", form.Values{"username": "ops@example.com", "password": "12345"}, []string{"password"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := form.LoginSchema.Validate(tc.values)
			require.Len(t, errs, len(tc.errs))
			for _, field := range tc.errs {
				require.Contains(t, errs, field)
			}
		})
	}
}

func TestRegisterSchema(t *testing.T) {
	t.Parallel()

	valid := form.Values{
		"name":            "Nguyễn An",
		"email":           "an@example.vn",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"phone":           "+84912345678",
	}
	require.Empty(t, form.RegisterSchema.Validate(valid))

	for _, phone := range []string{"0912345678", "84312345678"} {
		v := copyOf(valid)
		v["phone"] = phone
		require.Empty(t, form.RegisterSchema.Validate(v), phone)
	}

	for _, phone := range []string{"0212345678", "091234567", "+1912345678"} {
		v := copyOf(valid)
		v["phone"] = phone
		require.Contains(t, form.RegisterSchema.Validate(v), "phone", phone)
	}

	v := copyOf(valid)
	v["confirmPassword"] = "secret2"
	require.Equal(t, map[string]string{"confirmPassword": "Passwords do not match"}, form.RegisterSchema.Validate(v))

	v = copyOf(valid)
	v["name"] = "A"
	require.Contains(t, form.RegisterSchema.Validate(v), "name")
}

func TestFormCallbacks(t *testing.T) {
	t.Parallel()

	f := form.New(form.LoginSchema, form.Values{"username": "", "password": ""})

	require.False(t, f.Validate())
	require.NotEmpty(t, f.Error("username"))

	// A shared handler gets the field name; a bound handler only the value.
	var onChange form.FieldChangeFunc = f.OnChange()
	var onPassword form.ValueChangeFunc = f.Bind("password")

	onChange("username", "ops@example.com")
	require.Empty(t, f.Error("username"), "editing clears the field's error")
	require.NotEmpty(t, f.Error("password"))

	onPassword("123")
	require.Empty(t, f.Error("password"))
	require.False(t, f.Touched("password"))

	f.Blur("password")
	require.True(t, f.Touched("password"))
	require.Equal(t, "Password must be at least 6 characters", f.Error("password"))

	name, msg, ok := f.FirstError()
	require.True(t, ok)
	require.Equal(t, "password", name)
	require.NotEmpty(t, msg)

	onPassword("123456")
	require.True(t, f.Validate())
	require.Equal(t, form.Values{"username": "ops@example.com", "password": "123456"}, f.Values())

	f.Reset()
	require.Empty(t, f.Value("username"))
	require.Empty(t, f.Errors())
}

func copyOf(v form.Values) form.Values {
	out := form.Values{}
	for k, val := range v {
		out[k] = val
	}
	return out
}

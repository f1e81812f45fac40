package authflow

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelqa/authproof-cli/internal/config"
)

func testAccountConfig() config.AccountConfig {
	return config.AccountConfig{
		EmailBase:   "ninja.one.test01",
		EmailDomain: "gmail.com",
		Password:    "Sup3r!Secret",
	}
}

func TestGeneratorEmailPattern(t *testing.T) {
	gen := NewGenerator(testAccountConfig())
	pattern := regexp.MustCompile(`^ninja\.one\.test01\+\d{3}@gmail\.com$`)

	for i := 0; i < 50; i++ {
		email := gen.Email()
		assert.Regexp(t, pattern, email)
	}
}

func TestGeneratorAccount(t *testing.T) {
	gen := NewGenerator(testAccountConfig())
	account := gen.Account()

	assert.Contains(t, account.Email, "ninja.one.test01+")
	assert.Equal(t, "Sup3r!Secret", account.Password)
	assert.NotEmpty(t, account.Organization)
	assert.NotEmpty(t, account.FirstName)
	assert.NotEmpty(t, account.LastName)
	assert.NotEmpty(t, account.Phone)
}

func TestIsTestEmail(t *testing.T) {
	gen := NewGenerator(testAccountConfig())

	cases := []struct {
		email string
		want  bool
	}{
		{"ninja.one.test01+042@gmail.com", true},
		{"ninja.one.test01+999@gmail.com", true},
		{"ninja.one.test01@gmail.com", false},
		{"ninja.one.test01+42@gmail.com", false},
		{"ninja.one.test01+1234@gmail.com", false},
		{"someone.else+042@gmail.com", false},
		{"ninja-one-test01+042@gmail.com", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, gen.IsTestEmail(tc.email), tc.email)
	}
}

func TestSignupFillsAllFields(t *testing.T) {
	driver := newFakeDriver()
	driver.visible = map[string]bool{
		`[name="organization"]`:    true,
		`[name="firstName"]`:       true,
		`[name="lastName"]`:        true,
		`[name="email"]`:           true,
		`[name="password"]`:        true,
		`[name="passwordConfirm"]`: true,
		`[name="phone"]`:           true,
		`button[type="submit"]`:    true,
	}
	flow, _ := newTestFlow(t, driver)

	account := NewGenerator(testAccountConfig()).Account()
	require.NoError(t, flow.Signup(context.Background(), account))

	assert.Equal(t, []string{account.Organization}, driver.filled[`[name="organization"]`])
	assert.Equal(t, []string{account.FirstName}, driver.filled[`[name="firstName"]`])
	assert.Equal(t, []string{account.LastName}, driver.filled[`[name="lastName"]`])
	assert.Equal(t, []string{account.Email}, driver.filled[`[name="email"]`])
	assert.Equal(t, []string{account.Password}, driver.filled[`[name="password"]`])
	assert.Equal(t, []string{account.Password}, driver.filled[`[name="passwordConfirm"]`])
	assert.Equal(t, []string{account.Phone}, driver.filled[`[name="phone"]`])
	assert.Equal(t, []string{`button[type="submit"]`}, driver.clicked)
	require.Len(t, driver.navigated, 1)
	assert.Equal(t, flow.cfg.Target.SignupURL, driver.navigated[0])
}

func TestSignupFailsWhenFieldMissing(t *testing.T) {
	driver := newFakeDriver()
	driver.visible = map[string]bool{
		`[name="organization"]`: true,
		`[name="firstName"]`:    true,
	}
	flow, _ := newTestFlow(t, driver)

	err := flow.Signup(context.Background(), NewGenerator(testAccountConfig()).Account())
	require.Error(t, err)
	assert.Empty(t, driver.clicked, "form must not be submitted with missing fields")
	assert.NotEmpty(t, driver.screenshots)
}

package email

import (
	"fmt"

	"sendiab_backend/internal/catalog"
)

// Provider delivers the one-time credentials to a freshly provisioned
// practitioner. Delivery is best-effort: failures are logged by the
// caller and never fail account creation.
type Provider interface {
	SendCredentials(to, displayName, accountID, secret string, plan *catalog.Plan) error
}

// NoopProvider is used when SMTP is not configured.
type NoopProvider struct{}

func (NoopProvider) SendCredentials(string, string, string, string, *catalog.Plan) error {
	return nil
}

func credentialsBody(displayName, accountID, secret string, plan *catalog.Plan) string {
	return fmt.Sprintf(`Hello %s,

Your practitioner account is ready.

    Account ID: %s
    Secret:     %s

License plan: %s (%d photo analyses, valid %d days).

This secret is shown only once. Keep it safe and change nothing in this
message before storing it.

SEN'Diabete`, displayName, accountID, secret, plan.Name, plan.PhotoAllowance, plan.ValidityDays)
}

package instamojo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Fixture payloads with signatures computed independently with the documented
// algorithm (sorted non-mac fields, values joined with "|", HMAC-SHA1, hex).

func creditWebhookFields() map[string]string {
	return map[string]string{
		"amount":             "999.00",
		"buyer":              "owner@example.com",
		"buyer_name":         "Asha Patel",
		"currency":           "INR",
		"fees":               "19.98",
		"payment_id":         "MOJO5a06005J21512197",
		"payment_request_id": "d66cb29dd059482e8072999f995c4eef",
		"purpose":            "Subscription: Quarterly",
		"status":             "Credit",
	}
}

func TestComputeMAC_KnownVector(t *testing.T) {
	fields := creditWebhookFields()
	assert.Equal(t, "412a8b5b138bf3b9358996de9ea978bbe5e8d555", ComputeMAC(fields, "salt123"))
}

func TestComputeMAC_ExcludesMACField(t *testing.T) {
	fields := creditWebhookFields()
	fields["mac"] = "attacker-controlled"
	assert.Equal(t, "412a8b5b138bf3b9358996de9ea978bbe5e8d555", ComputeMAC(fields, "salt123"))
}

func TestComputeMAC_MinimalPayload(t *testing.T) {
	fields := map[string]string{
		"status":             "Failed",
		"payment_request_id": "PR123",
		"payment_id":         "PAY456",
	}
	assert.Equal(t, "657bfb64ae00d516feee55fc0280586701b0a196", ComputeMAC(fields, "another-salt"))
}

func TestVerifyMAC(t *testing.T) {
	fields := creditWebhookFields()
	fields["mac"] = ComputeMAC(fields, "salt123")

	assert.True(t, VerifyMAC(fields, "salt123"))
	assert.False(t, VerifyMAC(fields, "wrong-salt"))

	tampered := creditWebhookFields()
	tampered["mac"] = fields["mac"]
	tampered["amount"] = "1.00"
	assert.False(t, VerifyMAC(tampered, "salt123"))

	missing := creditWebhookFields()
	assert.False(t, VerifyMAC(missing, "salt123"), "payload without mac field must fail")
}

func TestVerifyMAC_UnknownExtraFieldsChangeSignature(t *testing.T) {
	// Unknown fields are part of the signed message; a payload with an extra
	// field signed without it must not verify.
	fields := creditWebhookFields()
	fields["mac"] = ComputeMAC(fields, "salt123")
	fields["instrument_type"] = "NETBANKING"
	assert.False(t, VerifyMAC(fields, "salt123"))
}

package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentType_JSON(t *testing.T) {
	b, err := json.Marshal(PaymentTypeCard)
	require.NoError(t, err)
	assert.Equal(t, `"card"`, string(b))

	cases := map[string]PaymentType{
		`"card"`:    PaymentTypeCard,
		`"CARD"`:    PaymentTypeCard,
		`"cash"`:    PaymentTypeCash,
		`"cheque"`:  PaymentTypeCash,
		`""`:        PaymentTypeCash,
		`1`:         PaymentTypeCard,
		`7`:         PaymentTypeCash,
		`null`:      PaymentTypeCash,
		`{"x": 1}`:  PaymentTypeCash,
	}
	for in, want := range cases {
		var p PaymentType
		require.NoError(t, json.Unmarshal([]byte(in), &p), in)
		assert.Equal(t, want, p, in)
	}
}

func TestPaymentType_MissingFieldIsCash(t *testing.T) {
	var v struct {
		PaymentType PaymentType `json:"paymentType"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &v))
	assert.Equal(t, PaymentTypeCash, v.PaymentType)
}

func TestIsValidPaymentType(t *testing.T) {
	assert.True(t, IsValidPaymentType(" Cash "))
	assert.True(t, IsValidPaymentType("card"))
	assert.False(t, IsValidPaymentType("crypto"))
}

func TestPaymentStatus(t *testing.T) {
	assert.Equal(t, "Insufficient", PaymentStatusInsufficient.String())
	assert.Equal(t, "Unknown", PaymentStatus(42).String())
	assert.True(t, PaymentStatusReady.IsOpen())
	assert.False(t, PaymentStatusClosed.IsOpen())
	assert.True(t, PaymentStatusCancelled.IsTerminal())

	b, err := json.Marshal(PaymentStatusReady)
	require.NoError(t, err)
	assert.Equal(t, `"Ready"`, string(b))
}

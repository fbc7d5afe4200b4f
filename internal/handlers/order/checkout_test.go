package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	n, err := generateOrderNumber()
	require.NoError(t, err)
	assert.Regexp(t, `^MIAM-\d{8}-[0-9A-F]{6}$`, n)
}

func TestFeeCentsFallback(t *testing.T) {
	t.Setenv("DELIVERY_FEE_CENTS", "")
	assert.Equal(t, int64(299), feeCents("DELIVERY_FEE_CENTS", 299))

	t.Setenv("DELIVERY_FEE_CENTS", "450")
	assert.Equal(t, int64(450), feeCents("DELIVERY_FEE_CENTS", 299))

	// une valeur négative ou illisible retombe sur le défaut
	t.Setenv("DELIVERY_FEE_CENTS", "-12")
	assert.Equal(t, int64(299), feeCents("DELIVERY_FEE_CENTS", 299))
}

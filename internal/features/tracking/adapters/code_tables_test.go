package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCodeTables_RepositoryFile(t *testing.T) {
	tables, err := LoadCodeTables("../../../../config/carriers.yaml")
	require.NoError(t, err)

	require.Contains(t, tables, "UPS")
	require.Contains(t, tables, "USPS")

	ups := tables["UPS"]
	assert.True(t, ups.Delivered.Contains("011", ""))
	assert.True(t, ups.AwaitingPickup.Contains("003", ""))
	for _, code := range ups.Delay.Codes {
		assert.True(t, ups.Problem.Contains(code, ""), "delay code %s must also be a problem code", code)
	}
	for _, code := range tables["USPS"].Delay.Codes {
		assert.True(t, tables["USPS"].Problem.Contains(code, ""), "delay code %s must also be a problem code", code)
	}
}

func TestParseCodeTables(t *testing.T) {
	data := []byte(`
carriers:
  fedex:
    aliases: ["FedEx Ground"]
    delivered:
      codes: ["DL"]
`)
	tables, err := ParseCodeTables(data)
	require.NoError(t, err)

	require.Contains(t, tables, "FEDEX")
	assert.Equal(t, []string{"DL"}, tables["FEDEX"].Delivered.Codes)
}

func TestParseCodeTables_Errors(t *testing.T) {
	_, err := ParseCodeTables([]byte(`carriers: [`))
	assert.Error(t, err)

	_, err = ParseCodeTables([]byte(`carriers: {}`))
	assert.Error(t, err)

	_, err = LoadCodeTables("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestMatchesCarrier(t *testing.T) {
	assert.True(t, matchesCarrier("usps", "USPS", nil))
	assert.True(t, matchesCarrier("Postal", "USPS", []string{"postal"}))
	assert.False(t, matchesCarrier("", "USPS", nil))
}

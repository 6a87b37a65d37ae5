package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCountries map[string]string

func (s staticCountries) Country(ip string) string {
	return s[ip]
}

func TestRead(t *testing.T) {
	input := "Source IP,Destination IP,Hits,Classification,Source Country,Rule\n" +
		" 1.2.3.4 ,10.0.0.1,5,Port Scan,CN,7\n" +
		"5.6.7.8,\t10.0.0.2,1,1,RU,7\n" +
		"5.6.7.8,10.0.0.2,oops,Brute Force,RU,7\n" +
		"5.6.7.8,10.0.0.3,,Brute Force,RU,7\n" +
		"5.6.7.8,10.0.0.4,0,Brute Force,RU,7\n" +
		"5.6.7.8,10.0.0.5,-3,Brute Force,RU,7\n" +
		"5.6.7.8,10.0.0.6,4.0,Brute Force,RU,7\n"

	records, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)

	expected := []ConnectionRecord{
		{SourceIP: "1.2.3.4", DestIP: "10.0.0.1", Hits: 5, Classification: "Port Scan", SourceCountry: "CN"},
		{SourceIP: "5.6.7.8", DestIP: "10.0.0.2", Hits: 1, Classification: "1", SourceCountry: "RU"},
		{SourceIP: "5.6.7.8", DestIP: "10.0.0.2", Hits: 1, Classification: "Brute Force", SourceCountry: "RU"},
		{SourceIP: "5.6.7.8", DestIP: "10.0.0.3", Hits: 1, Classification: "Brute Force", SourceCountry: "RU"},
		{SourceIP: "5.6.7.8", DestIP: "10.0.0.4", Hits: 0, Classification: "Brute Force", SourceCountry: "RU"},
		{SourceIP: "5.6.7.8", DestIP: "10.0.0.5", Hits: -3, Classification: "Brute Force", SourceCountry: "RU"},
		{SourceIP: "5.6.7.8", DestIP: "10.0.0.6", Hits: 4, Classification: "Brute Force", SourceCountry: "RU"},
	}
	assert.Equal(t, expected, records)
}

func TestReadColumnOrder(t *testing.T) {
	input := "\ufeffHits,Source Country,Classification,Destination IP,Source IP\n" +
		"12,DE,Exploit,192.168.1.5,9.9.9.9\n"

	records, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ConnectionRecord{
		SourceIP: "9.9.9.9", DestIP: "192.168.1.5", Hits: 12, Classification: "Exploit", SourceCountry: "DE",
	}, records[0])
}

func TestReadSchemaError(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		missing []string
	}{
		{"missing hits", "Source IP,Destination IP,Classification,Source Country", []string{"Hits"}},
		{"wrong case", "source ip,Destination IP,Hits,Classification,source country", []string{"Source IP", "Source Country"}},
		{"unrelated", "a,b", RequiredColumns},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(test.header+"\n"), nil)
			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, test.missing, schemaErr.Missing)
		})
	}
}

func TestReadEmpty(t *testing.T) {
	records, err := Read(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = Read(strings.NewReader(strings.Join(RequiredColumns, ",")+"\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadCountryFallback(t *testing.T) {
	input := "Source IP,Destination IP,Hits,Classification,Source Country\n" +
		"1.1.1.1,10.0.0.1,1,Scan,\n" +
		"2.2.2.2,10.0.0.1,1,Scan,FR\n" +
		"3.3.3.3,10.0.0.1,1,Scan,\n"

	records, err := Read(strings.NewReader(input), staticCountries{"1.1.1.1": "AU", "2.2.2.2": "US"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "AU", records[0].SourceCountry)
	assert.Equal(t, "FR", records[1].SourceCountry)
	assert.Equal(t, "", records[2].SourceCountry)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sophos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Source IP,Destination IP,Hits,Classification,Source Country\n1.1.1.1,10.0.0.1,\"1,200\",Scan,AU\n"), 0644))

	records, err := ReadFile(path, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1200, records[0].Hits)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestGeoIPNil(t *testing.T) {
	var g *GeoIP
	assert.Equal(t, "", g.Country("1.1.1.1"))
	assert.NoError(t, g.Close())

	_, err := OpenGeoIP(filepath.Join(t.TempDir(), "none.mmdb"))
	assert.Error(t, err)
}

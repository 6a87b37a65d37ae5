package record

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// GeoIP fills in source countries from a MaxMind GeoLite2/GeoIP2 Country
// database
type GeoIP struct {
	reader *geoip2.Reader
}

// OpenGeoIP opens the mmdb file at path
func OpenGeoIP(path string) (*GeoIP, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &GeoIP{reader: reader}, nil
}

// Country returns the ISO code of the country ip is registered in, or an
// empty string if it is unknown
func (g *GeoIP) Country(ip string) string {
	if g == nil || g.reader == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	country, err := g.reader.Country(parsed)
	if err != nil {
		return ""
	}
	return country.Country.IsoCode
}

// Close releases the database
func (g *GeoIP) Close() error {
	if g == nil || g.reader == nil {
		return nil
	}
	return g.reader.Close()
}

package services

import (
	"encoding/binary"
	"math"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"onway_routes/internal/models"
)

const wgs84SRID = 4326

// routeGeometry builds the WKB LineString through points, which must be in
// sequence order, and its length in kilometres. Fewer than two points have
// no line.
func routeGeometry(points []models.RoutePoint) ([]byte, float64, error) {
	if len(points) < 2 {
		return nil, 0, nil
	}
	coords := make([]geom.Coord, 0, len(points))
	var meters float64
	for i, p := range points {
		coords = append(coords, geom.Coord{p.Longitude, p.Latitude})
		if i > 0 {
			prev := points[i-1]
			meters += calculateDistance(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
		}
	}
	line := geom.NewLineString(geom.XY).MustSetCoords(coords).SetSRID(wgs84SRID)
	b, err := wkb.Marshal(line, binary.LittleEndian)
	if err != nil {
		return nil, 0, err
	}
	return b, math.Round(meters) / 1000, nil
}

// GeometryGeoJSON converts a stored WKB geometry to a GeoJSON string.
func GeometryGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// calculateDistance is the haversine distance in metres.
func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000 // Earth's radius in meters.
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

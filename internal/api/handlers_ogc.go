package api

import (
	"net/http"
	"time"

	"geoMaster/internal/geo"
)

type featureCollection struct {
	Type          string       `json:"type"`
	TotalFeatures int          `json:"totalFeatures"`
	Features      []wfsFeature `json:"features"`
}

type wfsFeature struct {
	Type       string              `json:"type"`
	ID         string              `json:"id"`
	Geometry   geo.GeoJSONGeometry `json:"geometry"`
	Properties wfsProperties       `json:"properties"`
}

type wfsProperties struct {
	Name      string  `json:"name"`
	CreatedBy string  `json:"createdBy"`
	Color     string  `json:"color"`
	Timestamp string  `json:"timestamp"`
	LengthKm  float64 `json:"lengthKm"`
}

// wfs serves every stored feature as a GeoJSON FeatureCollection.
func (h *handler) wfs(w http.ResponseWriter, r *http.Request) {
	features, err := h.features.List(r.Context(), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	fc := featureCollection{
		Type:          "FeatureCollection",
		TotalFeatures: len(features),
		Features:      make([]wfsFeature, 0, len(features)),
	}
	for _, f := range features {
		fc.Features = append(fc.Features, wfsFeature{
			Type:     "Feature",
			ID:       f.ID,
			Geometry: geo.ToGeoJSON(f.Geometry),
			Properties: wfsProperties{
				Name:      f.Name,
				CreatedBy: f.CreatedBy,
				Color:     f.Color,
				Timestamp: f.CreatedAt.UTC().Format(time.RFC3339),
				LengthKm:  geo.LengthKm(f.Geometry),
			},
		})
	}
	writeJSON(w, http.StatusOK, fc)
}

const wmsCapabilities = `<?xml version="1.0" encoding="UTF-8"?>
<WMS_Capabilities version="1.3.0" xmlns="http://www.opengis.net/wms" xmlns:xlink="http://www.w3.org/1999/xlink">
  <Service>
    <Name>WMS</Name>
    <Title>GeoMaster Map Service</Title>
    <Abstract>Capabilities for the GeoMaster feature layer</Abstract>
  </Service>
  <Capability>
    <Request>
      <GetCapabilities>
        <Format>text/xml</Format>
      </GetCapabilities>
    </Request>
    <Layer>
      <Name>geomaster:features</Name>
      <Title>GeoMaster Features</Title>
      <CRS>EPSG:4326</CRS>
      <EX_GeographicBoundingBox>
        <westBoundLongitude>-180</westBoundLongitude>
        <eastBoundLongitude>180</eastBoundLongitude>
        <southBoundLatitude>-90</southBoundLatitude>
        <northBoundLatitude>90</northBoundLatitude>
      </EX_GeographicBoundingBox>
      <BoundingBox CRS="EPSG:4326" minx="-90" miny="-180" maxx="90" maxy="180"/>
    </Layer>
  </Capability>
</WMS_Capabilities>
`

func (h *handler) wms(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(wmsCapabilities))
}

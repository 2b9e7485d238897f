package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
)

func TestParseZones_ISO88591(t *testing.T) {
	// "Breña" y "Jesús María" en Latin-1: ñ = 0xF1, ú = 0xFA, í = 0xED
	raw := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<zonas><zona codigo=\"Z-CENTRO\" nombre=\"Lima Centro\" dias=\"lun,jue\">" +
		"<distrito nombre=\"Bre\xf1a\"/><distrito nombre=\"Jes\xfas Mar\xeda\"/>" +
		"<distrito nombre=\" bre\xf1a \"/><distrito nombre=\"\"/>" +
		"</zona></zonas>")

	zones, err := parseZones(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Z-CENTRO", zones[0].Code)
	assert.Equal(t, "lun,jue", zones[0].DeliveryDays)
	assert.Equal(t, []string{"Breña", "Jesús María"}, zones[0].Districts)
}

func TestParseZones_RequiresCodeAndName(t *testing.T) {
	_, err := parseZones(strings.NewReader(`<zonas><zona codigo="" nombre="Sin código"/></zonas>`))
	assert.Error(t, err)
}

func TestSeedZones_SkipsExistingCodes(t *testing.T) {
	ctx := context.Background()
	fleet := usecase.NewFleetUseCase(nil, nil, memory.NewStore().Repos().Zones)

	zones, err := parseZones(strings.NewReader(`<zonas>
		<zona codigo="Z-NORTE" nombre="Lima Norte"><distrito nombre="Comas"/></zona>
		<zona codigo="Z-SUR" nombre="Lima Sur"><distrito nombre="Chorrillos"/></zona>
	</zonas>`))
	require.NoError(t, err)

	created, skipped, err := seedZones(ctx, fleet, zones)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, skipped)

	created, skipped, err = seedZones(ctx, fleet, zones)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, skipped)
}

// seed_zones carga las zonas de reparto y sus distritos desde un XML de parámetros.
//
// Uso: go run ./cmd/seed_zones [ruta/zonas.xml]
// Por defecto busca zonas.xml en el directorio actual. Usa el mismo STORE_DRIVER / DB_* que la API.
// Las zonas cuyo código ya existe se omiten, por lo que puede ejecutarse varias veces.
//
// Formato esperado (admite encoding="ISO-8859-1"):
//
//	<zonas>
//	  <zona codigo="Z-NORTE" nombre="Lima Norte" dias="lun,mie,vie">
//	    <distrito nombre="Comas"/>
//	    <distrito nombre="Los Olivos"/>
//	  </zona>
//	</zonas>
package main

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/memory"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/postgres"
	"github.com/jhoicas/distribuidora-api/pkg/config"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

type zonasXML struct {
	Zonas []zonaXML `xml:"zona"`
}

type zonaXML struct {
	Codigo      string `xml:"codigo,attr"`
	Nombre      string `xml:"nombre,attr"`
	Dias        string `xml:"dias,attr"`
	Descripcion string `xml:"descripcion,attr"`
	Distritos   []struct {
		Nombre string `xml:"nombre,attr"`
	} `xml:"distrito"`
}

func main() {
	xmlPath := "zonas.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	zones, err := parseZones(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{App: cfg.App.Name, Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_zones")

	ctx := context.Background()
	var zoneRepo repository.ZoneRepository
	if cfg.Store.Driver == "memory" {
		zoneRepo = memory.NewStore().Repos().Zones
		log.Warn().Msg("store en memoria: sólo se valida el archivo")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		zoneRepo = postgres.NewZoneRepository(pool)
	}

	fleet := usecase.NewFleetUseCase(nil, nil, zoneRepo)
	created, skipped, err := seedZones(ctx, fleet, zones)
	if err != nil {
		log.Fatal().Err(err).Msg("carga de zonas")
	}
	log.Info().Int("creadas", created).Int("omitidas", skipped).Str("archivo", xmlPath).Msg("zonas cargadas")
}

// parseZones decodifica el XML y normaliza los distritos (sin vacíos ni duplicados, ordenados).
func parseZones(r io.Reader) ([]dto.CreateZoneRequest, error) {
	var doc zonasXML
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		if strings.EqualFold(charset, "windows-1252") {
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	out := make([]dto.CreateZoneRequest, 0, len(doc.Zonas))
	for i, z := range doc.Zonas {
		code := strings.TrimSpace(z.Codigo)
		name := strings.TrimSpace(z.Nombre)
		if code == "" || name == "" {
			return nil, fmt.Errorf("zona %d: codigo y nombre son obligatorios", i+1)
		}
		seen := map[string]bool{}
		districts := []string{}
		for _, d := range z.Distritos {
			n := strings.TrimSpace(d.Nombre)
			if n == "" || seen[strings.ToLower(n)] {
				continue
			}
			seen[strings.ToLower(n)] = true
			districts = append(districts, n)
		}
		sort.Strings(districts)
		out = append(out, dto.CreateZoneRequest{
			Code:         code,
			Name:         name,
			Districts:    districts,
			Description:  strings.TrimSpace(z.Descripcion),
			DeliveryDays: strings.TrimSpace(z.Dias),
		})
	}
	return out, nil
}

// seedZones crea las zonas cuyo código aún no existe.
func seedZones(ctx context.Context, fleet *usecase.FleetUseCase, zones []dto.CreateZoneRequest) (created, skipped int, err error) {
	existing, err := fleet.ListZones(ctx)
	if err != nil {
		return 0, 0, err
	}
	codes := make(map[string]bool, len(existing))
	for _, z := range existing {
		codes[z.Code] = true
	}
	for _, z := range zones {
		if codes[z.Code] {
			skipped++
			continue
		}
		if _, err := fleet.CreateZone(ctx, z); err != nil {
			return created, skipped, fmt.Errorf("zona %s: %w", z.Code, err)
		}
		codes[z.Code] = true
		created++
	}
	return created, skipped, nil
}

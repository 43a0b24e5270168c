package portstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"seaway/pkg/apperror"
	"seaway/pkg/database"
	"seaway/pkg/geo"
	"seaway/pkg/metrics"
	"seaway/pkg/telemetry"
	"seaway/services/route-svc/internal/maritime"
)

// PostgresStore is the PostgreSQL-backed port registry.
type PostgresStore struct {
	db database.DB
}

// NewPostgresStore creates the store over a database handle.
func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const portColumns = `
	unlocode, name, country, latitude, longitude, port_type, status,
	max_vessel_length, max_vessel_beam, max_vessel_draft,
	facilities, berth_count
`

// scanPort reads one port row.
func scanPort(row pgx.Row) (*maritime.Port, error) {
	var (
		p          maritime.Port
		status     string
		facilities []byte
	)

	err := row.Scan(
		&p.UNLOCODE,
		&p.Name,
		&p.Country,
		&p.Coordinates.Latitude,
		&p.Coordinates.Longitude,
		&p.Type,
		&status,
		&p.MaxVesselLength,
		&p.MaxVesselBeam,
		&p.MaxVesselDraft,
		&facilities,
		&p.BerthCount,
	)
	if err != nil {
		return nil, err
	}

	p.Status = maritime.PortStatus(status)
	if len(facilities) > 0 {
		if err := json.Unmarshal(facilities, &p.Facilities); err != nil {
			return nil, fmt.Errorf("failed to decode facilities for %s: %w", p.UNLOCODE, err)
		}
	}

	return &p, nil
}

func (s *PostgresStore) GetPort(ctx context.Context, unlocode string) (*maritime.Port, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresStore.GetPort")
	defer span.End()

	query := `SELECT ` + portColumns + ` FROM ports WHERE unlocode = $1`

	p, err := scanPort(s.db.QueryRow(ctx, query, unlocode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.Get().RecordPortLookup("get", "miss")
			return nil, apperror.NewWithField(apperror.CodePortNotFound, "port not found", unlocode)
		}
		metrics.Get().RecordPortLookup("get", "error")
		return nil, fmt.Errorf("failed to get port %s: %w", unlocode, err)
	}

	metrics.Get().RecordPortLookup("get", "hit")
	return p, nil
}

// SearchPorts ranks matches with fixed relevance bands: exact UN/LOCODE
// 100, exact name 95, UN/LOCODE prefix 90, name prefix 85, name substring
// 70, country prefix 50, anything else that matched 30.
func (s *PostgresStore) SearchPorts(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresStore.SearchPorts")
	defer span.End()

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	term := strings.TrimSpace(q.Query)
	upper := strings.ToUpper(term)
	lower := strings.ToLower(term)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + portColumns + `,
		CASE
			WHEN unlocode = $1 THEN 100
			WHEN lower(name) = $2 THEN 95
			WHEN unlocode LIKE $1 || '%' THEN 90
			WHEN lower(name) LIKE $2 || '%' THEN 85
			WHEN lower(name) LIKE '%' || $2 || '%' THEN 70
			WHEN lower(country) LIKE $2 || '%' THEN 50
			ELSE 30
		END AS relevance
		FROM ports
		WHERE (unlocode LIKE $1 || '%'
			OR lower(name) LIKE '%' || $2 || '%'
			OR lower(country) LIKE $2 || '%')`)

	args := []any{upper, lower}

	if !q.IncludeInactive {
		sb.WriteString(` AND status = 'active'`)
	}
	if q.Country != "" {
		args = append(args, strings.ToUpper(q.Country))
		sb.WriteString(fmt.Sprintf(` AND country = $%d`, len(args)))
	}

	sb.WriteString(` ORDER BY relevance DESC, name ASC`)
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(` LIMIT $%d`, len(args)))

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		metrics.Get().RecordPortLookup("search", "error")
		return nil, fmt.Errorf("port search failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			p          maritime.Port
			status     string
			facilities []byte
			relevance  float64
		)

		err := rows.Scan(
			&p.UNLOCODE, &p.Name, &p.Country,
			&p.Coordinates.Latitude, &p.Coordinates.Longitude,
			&p.Type, &status,
			&p.MaxVesselLength, &p.MaxVesselBeam, &p.MaxVesselDraft,
			&facilities, &p.BerthCount,
			&relevance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		p.Status = maritime.PortStatus(status)
		if len(facilities) > 0 {
			if err := json.Unmarshal(facilities, &p.Facilities); err != nil {
				return nil, fmt.Errorf("failed to decode facilities for %s: %w", p.UNLOCODE, err)
			}
		}

		if q.Vessel != nil && !p.CanAccommodate(q.Vessel) {
			continue
		}

		results = append(results, SearchResult{Port: &p, Relevance: relevance})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("port search failed: %w", err)
	}

	metrics.Get().RecordPortLookup("search", "hit")
	return results, nil
}

// NearbyPorts prefilters candidates with a latitude/longitude bounding box
// in SQL, then computes exact great-circle distances.
func (s *PostgresStore) NearbyPorts(ctx context.Context, center geo.Coordinates, radiusNM float64, limit int, vessel *maritime.VesselConstraints) ([]NearbyResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresStore.NearbyPorts")
	defer span.End()

	if radiusNM <= 0 {
		return nil, apperror.New(apperror.CodeInvalidDistance, "radius must be positive")
	}
	if limit <= 0 {
		limit = 10
	}

	// One degree of latitude is about 60 nm; longitude shrinks with
	// latitude and degenerates near the poles.
	latDelta := radiusNM / 60.0
	lonDelta := 180.0
	if cosLat := math.Cos(center.Latitude * math.Pi / 180.0); cosLat > 0.01 {
		lonDelta = math.Min(radiusNM/(60.0*cosLat), 180.0)
	}

	query := `SELECT ` + portColumns + `
		FROM ports
		WHERE status = 'active'
		  AND latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4`

	rows, err := s.db.Query(ctx, query,
		center.Latitude-latDelta, center.Latitude+latDelta,
		center.Longitude-lonDelta, center.Longitude+lonDelta,
	)
	if err != nil {
		metrics.Get().RecordPortLookup("nearby", "error")
		return nil, fmt.Errorf("nearby port query failed: %w", err)
	}
	defer rows.Close()

	var results []NearbyResult
	for rows.Next() {
		var (
			p          maritime.Port
			status     string
			facilities []byte
		)

		err := rows.Scan(
			&p.UNLOCODE, &p.Name, &p.Country,
			&p.Coordinates.Latitude, &p.Coordinates.Longitude,
			&p.Type, &status,
			&p.MaxVesselLength, &p.MaxVesselBeam, &p.MaxVesselDraft,
			&facilities, &p.BerthCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nearby row: %w", err)
		}

		p.Status = maritime.PortStatus(status)
		if len(facilities) > 0 {
			if err := json.Unmarshal(facilities, &p.Facilities); err != nil {
				return nil, fmt.Errorf("failed to decode facilities for %s: %w", p.UNLOCODE, err)
			}
		}

		if vessel != nil && !p.CanAccommodate(vessel) {
			continue
		}

		d := geo.Distance(center, p.Coordinates)
		if d <= radiusNM {
			results = append(results, NearbyResult{Port: &p, DistanceNM: d})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("nearby port query failed: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceNM != results[j].DistanceNM {
			return results[i].DistanceNM < results[j].DistanceNM
		}
		return results[i].Port.UNLOCODE < results[j].Port.UNLOCODE
	})

	if len(results) > limit {
		results = results[:limit]
	}

	metrics.Get().RecordPortLookup("nearby", "hit")
	return results, nil
}

// ListPorts loads every port row. The planner calls this once at startup
// to build the routing graph, so it is not part of the PortStore interface.
func (s *PostgresStore) ListPorts(ctx context.Context) ([]*maritime.Port, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresStore.ListPorts")
	defer span.End()

	rows, err := s.db.Query(ctx, `SELECT `+portColumns+` FROM ports ORDER BY unlocode`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}
	defer rows.Close()

	var ports []*maritime.Port
	for rows.Next() {
		p, err := scanPort(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan port row: %w", err)
		}
		ports = append(ports, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}

	return ports, nil
}

// Statistics runs both aggregate queries inside one transaction so the
// summary counts and the per-type breakdown describe the same snapshot.
func (s *PostgresStore) Statistics(ctx context.Context) (*Statistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresStore.Statistics")
	defer span.End()

	return database.WithTransactionResult(ctx, s.db, func(tx pgx.Tx) (*Statistics, error) {
		stats := &Statistics{Types: make(map[string]int64)}

		summary := `SELECT
			count(*),
			count(*) FILTER (WHERE status = 'active'),
			count(DISTINCT country)
		FROM ports`

		if err := tx.QueryRow(ctx, summary).Scan(&stats.Total, &stats.Active, &stats.Countries); err != nil {
			return nil, fmt.Errorf("port statistics failed: %w", err)
		}

		rows, err := tx.Query(ctx, `SELECT port_type, count(*) FROM ports GROUP BY port_type`)
		if err != nil {
			return nil, fmt.Errorf("port statistics failed: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				portType string
				count    int64
			)
			if err := rows.Scan(&portType, &count); err != nil {
				return nil, fmt.Errorf("failed to scan type row: %w", err)
			}
			stats.Types[portType] = count
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("port statistics failed: %w", err)
		}

		return stats, nil
	})
}

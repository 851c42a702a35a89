package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/Simplici0/orca/internal/pricing"
)

// MaterialRow is a material as listed on the admin screen.
type MaterialRow struct {
	pricing.Material
	Active    bool   `json:"active"`
	UpdatedAt string `json:"updated_at"`
}

// LoadCatalog builds a fresh catalog from the reference tables.
// Only active materials are included.
func (s *Store) LoadCatalog(ctx context.Context) (*pricing.Catalog, error) {
	cat := &pricing.Catalog{
		Materials:     make(map[string]pricing.Material),
		HardwareTiers: make(map[string]pricing.HardwareTier),
		LaborRates:    make(map[pricing.Complexity]float64),
	}

	var drilling, defaultComplexity string
	err := s.db.QueryRowContext(ctx, `
		SELECT rate_per_meter, hole_fee, minimum_fee, drilling_kinds,
		       default_material, default_tier, default_complexity, source
		FROM cutting_policy
		WHERE id = 1
	`).Scan(
		&cat.Cutting.RatePerMeter,
		&cat.Cutting.HoleFee,
		&cat.Cutting.MinimumFee,
		&drilling,
		&cat.DefaultMaterial,
		&cat.DefaultTier,
		&defaultComplexity,
		&cat.Source,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cutting_policy singleton not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("query cutting_policy: %w", err)
	}
	cat.DefaultComplexity = pricing.Complexity(defaultComplexity)
	cat.Cutting.DrillingKinds = splitKinds(drilling)

	materials, err := s.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range materials {
		if m.Active {
			cat.Materials[m.Name] = m.Material
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT tier, kind, unit_price FROM hardware_prices`)
	if err != nil {
		return nil, fmt.Errorf("query hardware prices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tier, kind string
		var price float64
		if err := rows.Scan(&tier, &kind, &price); err != nil {
			return nil, fmt.Errorf("scan hardware price: %w", err)
		}
		if cat.HardwareTiers[tier] == nil {
			cat.HardwareTiers[tier] = make(pricing.HardwareTier)
		}
		cat.HardwareTiers[tier][kind] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hardware prices: %w", err)
	}

	laborRows, err := s.db.QueryContext(ctx, `SELECT complexity, rate FROM labor_rates`)
	if err != nil {
		return nil, fmt.Errorf("query labor rates: %w", err)
	}
	defer laborRows.Close()
	for laborRows.Next() {
		var level string
		var rate float64
		if err := laborRows.Scan(&level, &rate); err != nil {
			return nil, fmt.Errorf("scan labor rate: %w", err)
		}
		cat.LaborRates[pricing.Complexity(level)] = rate
	}
	if err := laborRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate labor rates: %w", err)
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// ListMaterials returns every material, active or not, ordered by name.
func (s *Store) ListMaterials(ctx context.Context) ([]MaterialRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, price_per_m2, waste_fraction, active, updated_at
		FROM materials
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]MaterialRow, 0)
	for rows.Next() {
		var m MaterialRow
		if err := rows.Scan(&m.Name, &m.Description, &m.PricePerM2, &m.WasteFraction, &m.Active, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

// UpsertMaterial creates or replaces a material price entry.
func (s *Store) UpsertMaterial(ctx context.Context, m pricing.Material, active bool) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return &pricing.ValidationError{Index: -1, Field: "name", Reason: "is required"}
	}
	if !validAmount(m.PricePerM2) {
		return &pricing.ValidationError{Index: -1, Field: "price_per_m2", Reason: "must be a finite non-negative number"}
	}
	if !validAmount(m.WasteFraction) || m.WasteFraction >= 1 {
		return &pricing.ValidationError{Index: -1, Field: "waste_fraction", Reason: "must be in [0, 1)"}
	}

	if !active {
		var isDefault bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cutting_policy WHERE default_material = ?)`, m.Name).Scan(&isDefault); err != nil {
			return fmt.Errorf("check default material: %w", err)
		}
		if isDefault {
			return &pricing.ValidationError{Index: -1, Field: "active", Reason: "the default material cannot be deactivated"}
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO materials (name, description, price_per_m2, waste_fraction, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			price_per_m2 = excluded.price_per_m2,
			waste_fraction = excluded.waste_fraction,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, m.Name, strings.TrimSpace(m.Description), m.PricePerM2, m.WasteFraction, active)
	if err != nil {
		return fmt.Errorf("upsert material: %w", err)
	}
	return nil
}

// UpsertHardwarePrice sets the unit price of one hardware kind within a tier.
func (s *Store) UpsertHardwarePrice(ctx context.Context, tier, kind string, unitPrice float64) error {
	tier = strings.TrimSpace(tier)
	kind = strings.TrimSpace(kind)
	if tier == "" {
		return &pricing.ValidationError{Index: -1, Field: "tier", Reason: "is required"}
	}
	if kind == "" {
		return &pricing.ValidationError{Index: -1, Field: "kind", Reason: "is required"}
	}
	if !validAmount(unitPrice) {
		return &pricing.ValidationError{Index: -1, Field: "unit_price", Reason: "must be a finite non-negative number"}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hardware_prices (tier, kind, unit_price)
		VALUES (?, ?, ?)
		ON CONFLICT(tier, kind) DO UPDATE SET
			unit_price = excluded.unit_price,
			updated_at = CURRENT_TIMESTAMP
	`, tier, kind, unitPrice)
	if err != nil {
		return fmt.Errorf("upsert hardware price: %w", err)
	}
	return nil
}

// UpdateLaborRate changes the rate of an existing complexity level.
func (s *Store) UpdateLaborRate(ctx context.Context, level pricing.Complexity, rate float64) error {
	if !validAmount(rate) {
		return &pricing.ValidationError{Index: -1, Field: "rate", Reason: "must be a finite non-negative number"}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE labor_rates
		SET rate = ?, updated_at = CURRENT_TIMESTAMP
		WHERE complexity = ?
	`, rate, string(level))
	if err != nil {
		return fmt.Errorf("update labor rate: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update labor rate: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("complexity %q: %w", level, ErrNotFound)
	}
	return nil
}

// SaveCatalog writes cat into the reference tables inside tx.
// Existing rows are left untouched when insertOnly is set; the counts report rows
// inserted and rows updated.
func SaveCatalog(ctx context.Context, tx *sql.Tx, cat *pricing.Catalog, insertOnly bool) (inserts, updates int, err error) {
	if err := cat.Validate(); err != nil {
		return 0, 0, err
	}

	count := func(res sql.Result, existed bool) error {
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if existed {
			updates++
		} else {
			inserts++
		}
		return nil
	}

	exists := func(query string, args ...any) (bool, error) {
		var ok bool
		err := tx.QueryRowContext(ctx, query, args...).Scan(&ok)
		return ok, err
	}

	for _, name := range cat.MaterialNames() {
		m := cat.Materials[name]
		existed, err := exists(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ?)`, name)
		if err != nil {
			return 0, 0, fmt.Errorf("check material %q: %w", name, err)
		}
		if existed && insertOnly {
			continue
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO materials (name, description, price_per_m2, waste_fraction, active)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(name) DO UPDATE SET
				description = excluded.description,
				price_per_m2 = excluded.price_per_m2,
				waste_fraction = excluded.waste_fraction,
				updated_at = CURRENT_TIMESTAMP
		`, name, m.Description, m.PricePerM2, m.WasteFraction)
		if err != nil {
			return 0, 0, fmt.Errorf("write material %q: %w", name, err)
		}
		if err := count(res, existed); err != nil {
			return 0, 0, err
		}
	}

	for _, tierName := range cat.TierNames() {
		tier := cat.HardwareTiers[tierName]
		for _, kind := range slices.Sorted(maps.Keys(tier)) {
			existed, err := exists(`SELECT EXISTS(SELECT 1 FROM hardware_prices WHERE tier = ? AND kind = ?)`, tierName, kind)
			if err != nil {
				return 0, 0, fmt.Errorf("check hardware price %s/%s: %w", tierName, kind, err)
			}
			if existed && insertOnly {
				continue
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO hardware_prices (tier, kind, unit_price)
				VALUES (?, ?, ?)
				ON CONFLICT(tier, kind) DO UPDATE SET
					unit_price = excluded.unit_price,
					updated_at = CURRENT_TIMESTAMP
			`, tierName, kind, tier[kind])
			if err != nil {
				return 0, 0, fmt.Errorf("write hardware price %s/%s: %w", tierName, kind, err)
			}
			if err := count(res, existed); err != nil {
				return 0, 0, err
			}
		}
	}

	for _, level := range pricing.Complexities() {
		rate, ok := cat.LaborRates[level]
		if !ok {
			continue
		}
		existed, err := exists(`SELECT EXISTS(SELECT 1 FROM labor_rates WHERE complexity = ?)`, string(level))
		if err != nil {
			return 0, 0, fmt.Errorf("check labor rate %s: %w", level, err)
		}
		if existed && insertOnly {
			continue
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO labor_rates (complexity, rate)
			VALUES (?, ?)
			ON CONFLICT(complexity) DO UPDATE SET
				rate = excluded.rate,
				updated_at = CURRENT_TIMESTAMP
		`, string(level), rate)
		if err != nil {
			return 0, 0, fmt.Errorf("write labor rate %s: %w", level, err)
		}
		if err := count(res, existed); err != nil {
			return 0, 0, err
		}
	}

	existed, err := exists(`SELECT EXISTS(SELECT 1 FROM cutting_policy WHERE id = 1)`)
	if err != nil {
		return 0, 0, fmt.Errorf("check cutting policy: %w", err)
	}
	if !existed || !insertOnly {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO cutting_policy (
				id, rate_per_meter, hole_fee, minimum_fee, drilling_kinds,
				default_material, default_tier, default_complexity, source
			) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				rate_per_meter = excluded.rate_per_meter,
				hole_fee = excluded.hole_fee,
				minimum_fee = excluded.minimum_fee,
				drilling_kinds = excluded.drilling_kinds,
				default_material = excluded.default_material,
				default_tier = excluded.default_tier,
				default_complexity = excluded.default_complexity,
				source = excluded.source
		`,
			cat.Cutting.RatePerMeter,
			cat.Cutting.HoleFee,
			cat.Cutting.MinimumFee,
			strings.Join(cat.Cutting.DrillingKinds, ","),
			cat.DefaultMaterial,
			cat.DefaultTier,
			string(cat.DefaultComplexity),
			cat.Source,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("write cutting policy: %w", err)
		}
		if err := count(res, existed); err != nil {
			return 0, 0, err
		}
	}

	return inserts, updates, nil
}

func splitKinds(raw string) []string {
	kinds := make([]string, 0)
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

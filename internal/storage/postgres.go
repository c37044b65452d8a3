package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/doorstep-labs/proptext/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type PostgresStorage struct {
	db *sql.DB
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

// NewPostgresStorageWithDB wraps an existing handle. Used by tests.
func NewPostgresStorageWithDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetPersonByPhone(ctx context.Context, last10 string) (*models.Person, error) {
	// Substring match tolerates stored numbers with or without punctuation
	// or country code.
	query := `
		SELECT id, first_name, last_name, primary_phone, mobile_phone, email, role, notes, raw_data, synced_at
		FROM people
		WHERE primary_phone LIKE '%' || $1 || '%' OR mobile_phone LIKE '%' || $1 || '%'
		LIMIT 1`

	p := &models.Person{}
	var rawData []byte
	err := s.db.QueryRowContext(ctx, query, last10).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.PrimaryPhone, &p.MobilePhone,
		&p.Email, &p.Role, &p.Notes, &rawData, &p.SyncedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying person by phone: %v", err)
	}
	p.RawData = rawData

	return p, nil
}

func (s *PostgresStorage) GetActiveLease(ctx context.Context, tenantID string) (*models.Lease, error) {
	query := `
		SELECT id, tenant_id, property_id, unit_id, status, start_date, end_date, monthly_rent, deposit
		FROM leases
		WHERE tenant_id = $1 AND lower(status) IN ('active', 'current')
		ORDER BY start_date DESC NULLS LAST
		LIMIT 1`

	l := &models.Lease{}
	var start, end sql.NullTime
	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(
		&l.ID, &l.TenantID, &l.PropertyID, &l.UnitID, &l.Status,
		&start, &end, &l.MonthlyRent, &l.Deposit,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying active lease: %v", err)
	}
	if start.Valid {
		l.StartDate = &start.Time
	}
	if end.Valid {
		l.EndDate = &end.Time
	}

	return l, nil
}

const openTaskColumns = `id, tenant_id, property_id, unit_id, assignee, title, description, status, priority, created_at, updated_at`

// terminalStatusSet renders models.TerminalTaskStatuses as a SQL IN list so
// both storage implementations share one terminal set.
var terminalStatusSet = "'" + strings.Join(models.TerminalTaskStatuses, "', '") + "'"

func (s *PostgresStorage) GetOpenTasksByTenant(ctx context.Context, tenantID string, limit int) ([]models.Task, error) {
	query := `
		SELECT ` + openTaskColumns + `
		FROM tasks
		WHERE tenant_id = $1 AND lower(status) NOT IN (` + terminalStatusSet + `)
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying tenant tasks: %v", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (s *PostgresStorage) GetOpenTasksByProperties(ctx context.Context, propertyIDs []string, limit int) ([]models.Task, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + openTaskColumns + `
		FROM tasks
		WHERE property_id = ANY($1) AND lower(status) NOT IN (` + terminalStatusSet + `)
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(propertyIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying property tasks: %v", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (s *PostgresStorage) GetOpenTasksByAssignee(ctx context.Context, name, company string, limit int) ([]models.Task, error) {
	query := `
		SELECT ` + openTaskColumns + `
		FROM tasks
		WHERE lower(status) NOT IN (` + terminalStatusSet + `)
		  AND (($1 <> '' AND assignee ILIKE '%' || $1 || '%')
		    OR ($2 <> '' AND assignee ILIKE '%' || $2 || '%'))
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, name, company, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying assignee tasks: %v", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		err := rows.Scan(
			&t.ID, &t.TenantID, &t.PropertyID, &t.UnitID, &t.Assignee,
			&t.Title, &t.Description, &t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning task: %v", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const propertyColumns = `id, name, street1, street2, city, state, zip, type, description, amenities,
		pet_policy_small_dogs, pet_policy_large_dogs, pet_policy_cats, active, synced_at`

func scanProperty(rows *sql.Rows) (models.Property, error) {
	var p models.Property
	err := rows.Scan(
		&p.ID, &p.Name, &p.Street1, &p.Street2, &p.City, &p.State, &p.Zip,
		&p.Type, &p.Description, pq.Array(&p.Amenities),
		&p.PetPolicySmallDogs, &p.PetPolicyLargeDogs, &p.PetPolicyCats,
		&p.Active, &p.SyncedAt,
	)
	if err != nil {
		return p, fmt.Errorf("error scanning property: %v", err)
	}
	return p, nil
}

func (s *PostgresStorage) GetUnitWithProperty(ctx context.Context, unitID string) (*models.Unit, *models.Property, error) {
	query := `
		SELECT u.id, u.property_id, u.name, u.beds, u.baths, u.size, u.market_rent, u.description, u.amenities, u.active,
		       p.id, p.name, p.street1, p.street2, p.city, p.state, p.zip, p.type, p.description, p.amenities,
		       p.pet_policy_small_dogs, p.pet_policy_large_dogs, p.pet_policy_cats, p.active, p.synced_at
		FROM units u
		JOIN properties p ON p.id = u.property_id
		WHERE u.id = $1`

	var u models.Unit
	var p models.Property
	err := s.db.QueryRowContext(ctx, query, unitID).Scan(
		&u.ID, &u.PropertyID, &u.Name, &u.Beds, &u.Baths, &u.Size, &u.MarketRent,
		&u.Description, pq.Array(&u.Amenities), &u.Active,
		&p.ID, &p.Name, &p.Street1, &p.Street2, &p.City, &p.State, &p.Zip,
		&p.Type, &p.Description, pq.Array(&p.Amenities),
		&p.PetPolicySmallDogs, &p.PetPolicyLargeDogs, &p.PetPolicyCats,
		&p.Active, &p.SyncedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error querying unit with property: %v", err)
	}

	return &u, &p, nil
}

func (s *PostgresStorage) GetPropertiesByIDs(ctx context.Context, ids []string) ([]models.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = ANY($1)
		ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying properties by ids: %v", err)
	}
	defer rows.Close()

	var props []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachActiveUnits(ctx, props, ListingFilter{}); err != nil {
		return nil, err
	}

	return props, nil
}

func (s *PostgresStorage) GetActiveLeasesByProperties(ctx context.Context, propertyIDs []string) ([]models.Lease, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, tenant_id, property_id, unit_id, status, start_date, end_date, monthly_rent, deposit
		FROM leases
		WHERE property_id = ANY($1) AND lower(status) IN ('active', 'current')
		ORDER BY end_date ASC NULLS LAST`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(propertyIDs))
	if err != nil {
		return nil, fmt.Errorf("error querying property leases: %v", err)
	}
	defer rows.Close()

	var leases []models.Lease
	for rows.Next() {
		var l models.Lease
		var start, end sql.NullTime
		err := rows.Scan(
			&l.ID, &l.TenantID, &l.PropertyID, &l.UnitID, &l.Status,
			&start, &end, &l.MonthlyRent, &l.Deposit,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning lease: %v", err)
		}
		if start.Valid {
			l.StartDate = &start.Time
		}
		if end.Valid {
			l.EndDate = &end.Time
		}
		leases = append(leases, l)
	}

	return leases, rows.Err()
}

func (s *PostgresStorage) ListActiveProperties(ctx context.Context, filter ListingFilter) ([]models.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE active = TRUE AND ($1 = '' OR lower(city) = lower($1))
		ORDER BY name, id`
	args := []any{filter.City}

	// With a unit-level filter the cap applies after unit-less properties
	// drop out, so the LIMIT stays out of the SQL.
	if filter.Limit > 0 && !filter.UnitFiltered() {
		query += ` LIMIT $2`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying active properties: %v", err)
	}
	defer rows.Close()

	var props []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachActiveUnits(ctx, props, filter); err != nil {
		return nil, err
	}

	// With a unit-level filter, properties with nothing matching drop out.
	if filter.UnitFiltered() {
		filtered := props[:0]
		for _, p := range props {
			if len(p.Units) > 0 {
				filtered = append(filtered, p)
			}
		}
		props = filtered
		if filter.Limit > 0 && len(props) > filter.Limit {
			props = props[:filter.Limit]
		}
	}

	return props, nil
}

// attachActiveUnits loads active units for the given properties, applying
// the filter's beds/rent constraints when present.
func (s *PostgresStorage) attachActiveUnits(ctx context.Context, props []models.Property, filter ListingFilter) error {
	if len(props) == 0 {
		return nil
	}

	ids := make([]string, len(props))
	index := make(map[string]int, len(props))
	for i, p := range props {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `
		SELECT id, property_id, name, beds, baths, size, market_rent, description, amenities, active
		FROM units
		WHERE property_id = ANY($1) AND active = TRUE
		  AND ($2 = 0 OR beds = $2)
		  AND ($3 = 0 OR market_rent <= $3)
		ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids), filter.Beds, filter.MaxRent)
	if err != nil {
		return fmt.Errorf("error querying units: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.Unit
		err := rows.Scan(
			&u.ID, &u.PropertyID, &u.Name, &u.Beds, &u.Baths, &u.Size,
			&u.MarketRent, &u.Description, pq.Array(&u.Amenities), &u.Active,
		)
		if err != nil {
			return fmt.Errorf("error scanning unit: %v", err)
		}
		if i, ok := index[u.PropertyID]; ok {
			props[i].Units = append(props[i].Units, u)
		}
	}

	return rows.Err()
}

func (s *PostgresStorage) ListActiveCities(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT city
		FROM properties
		WHERE active = TRUE AND city <> ''
		ORDER BY city`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying cities: %v", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("error scanning city: %v", err)
		}
		cities = append(cities, city)
	}

	return cities, rows.Err()
}

func (s *PostgresStorage) CreateMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, from_phone, to_phone, incoming_message, ai_reply, status, caller_type, caller_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		msg.ID, msg.FromPhone, msg.ToPhone, msg.IncomingMessage,
		msg.AIReply, msg.Status, msg.CallerType, msg.CallerName,
	).Scan(&msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating message: %v", err)
	}

	return nil
}

const messageColumns = `id, from_phone, to_phone, incoming_message, ai_reply, status, caller_type, caller_name, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	m := &models.Message{}
	err := row.Scan(
		&m.ID, &m.FromPhone, &m.ToPhone, &m.IncomingMessage, &m.AIReply,
		&m.Status, &m.CallerType, &m.CallerName, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PostgresStorage) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying message: %v", err)
	}

	return m, nil
}

func (s *PostgresStorage) ListMessages(ctx context.Context, status string, limit int) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %v", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %v", err)
		}
		msgs = append(msgs, *m)
	}

	return msgs, rows.Err()
}

func (s *PostgresStorage) GetMessagesByPhone(ctx context.Context, phone string, limit int) ([]models.Message, error) {
	// Latest N, returned in ascending order for transcript rendering.
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + `
			FROM messages
			WHERE from_phone = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying messages by phone: %v", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %v", err)
		}
		msgs = append(msgs, *m)
	}

	return msgs, rows.Err()
}

// SetMessageStatus moves a message between lifecycle states. The transition
// is guarded in SQL so a message never leaves pending twice.
func (s *PostgresStorage) SetMessageStatus(ctx context.Context, id, from, to string) error {
	query := `
		UPDATE messages
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`

	result, err := s.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("error updating message status: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("message %s is not in status %q", id, from)
	}

	return nil
}

func (s *PostgresStorage) UpsertPerson(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO people (id, first_name, last_name, primary_phone, mobile_phone, email, role, notes, raw_data, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			primary_phone = EXCLUDED.primary_phone,
			mobile_phone = EXCLUDED.mobile_phone,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			notes = EXCLUDED.notes,
			raw_data = EXCLUDED.raw_data,
			synced_at = now()`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.PrimaryPhone, p.MobilePhone,
		p.Email, p.Role, p.Notes, nullableJSON(p.RawData),
	)
	if err != nil {
		return fmt.Errorf("error upserting person: %v", err)
	}

	return nil
}

func (s *PostgresStorage) UpsertProperty(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (id, name, street1, street2, city, state, zip, type, description, amenities,
			pet_policy_small_dogs, pet_policy_large_dogs, pet_policy_cats, active, raw_data, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			street1 = EXCLUDED.street1,
			street2 = EXCLUDED.street2,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip = EXCLUDED.zip,
			type = EXCLUDED.type,
			description = EXCLUDED.description,
			amenities = EXCLUDED.amenities,
			pet_policy_small_dogs = EXCLUDED.pet_policy_small_dogs,
			pet_policy_large_dogs = EXCLUDED.pet_policy_large_dogs,
			pet_policy_cats = EXCLUDED.pet_policy_cats,
			active = EXCLUDED.active,
			raw_data = EXCLUDED.raw_data,
			synced_at = now()`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Street1, p.Street2, p.City, p.State, p.Zip, p.Type,
		p.Description, pq.Array(p.Amenities),
		p.PetPolicySmallDogs, p.PetPolicyLargeDogs, p.PetPolicyCats,
		p.Active, nullableJSON(p.RawData),
	)
	if err != nil {
		return fmt.Errorf("error upserting property: %v", err)
	}

	return nil
}

func (s *PostgresStorage) UpsertUnit(ctx context.Context, u *models.Unit) error {
	query := `
		INSERT INTO units (id, property_id, name, beds, baths, size, market_rent, description, amenities, active, raw_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			property_id = EXCLUDED.property_id,
			name = EXCLUDED.name,
			beds = EXCLUDED.beds,
			baths = EXCLUDED.baths,
			size = EXCLUDED.size,
			market_rent = EXCLUDED.market_rent,
			description = EXCLUDED.description,
			amenities = EXCLUDED.amenities,
			active = EXCLUDED.active,
			raw_data = EXCLUDED.raw_data`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.PropertyID, u.Name, u.Beds, u.Baths, u.Size, u.MarketRent,
		u.Description, pq.Array(u.Amenities), u.Active, nullableJSON(u.RawData),
	)
	if err != nil {
		return fmt.Errorf("error upserting unit: %v", err)
	}

	return nil
}

func (s *PostgresStorage) UpsertLease(ctx context.Context, l *models.Lease) error {
	query := `
		INSERT INTO leases (id, tenant_id, property_id, unit_id, status, start_date, end_date, monthly_rent, deposit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			property_id = EXCLUDED.property_id,
			unit_id = EXCLUDED.unit_id,
			status = EXCLUDED.status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			monthly_rent = EXCLUDED.monthly_rent,
			deposit = EXCLUDED.deposit`

	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.TenantID, l.PropertyID, l.UnitID, l.Status,
		nullableTime(l.StartDate), nullableTime(l.EndDate), l.MonthlyRent, l.Deposit,
	)
	if err != nil {
		return fmt.Errorf("error upserting lease: %v", err)
	}

	return nil
}

func (s *PostgresStorage) UpsertTask(ctx context.Context, t *models.Task) error {
	query := `
		INSERT INTO tasks (id, tenant_id, property_id, unit_id, assignee, title, description, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			property_id = EXCLUDED.property_id,
			unit_id = EXCLUDED.unit_id,
			assignee = EXCLUDED.assignee,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.TenantID, t.PropertyID, t.UnitID, t.Assignee, t.Title,
		t.Description, t.Status, t.Priority, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error upserting task: %v", err)
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

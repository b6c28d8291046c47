package migrations

import (
	"context"
	"fmt"

	"github.com/m04kA/varaamo-core/pkg/dbmetrics"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reservation_units (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	opening_hours_resource_id TEXT NOT NULL DEFAULT '',
	buffer_time_before_minutes INT NOT NULL DEFAULT 0,
	buffer_time_after_minutes INT NOT NULL DEFAULT 0,
	reservation_start_interval_minutes INT NOT NULL DEFAULT 15,
	min_reservation_duration_minutes INT NOT NULL DEFAULT 0,
	max_reservation_duration_minutes INT NOT NULL DEFAULT 0,
	reservations_min_days_before INT NOT NULL DEFAULT 0,
	reservations_max_days_before INT NOT NULL DEFAULT 0,
	access_type TEXT NOT NULL DEFAULT 'UNRESTRICTED'
);

CREATE TABLE IF NOT EXISTS reservation_unit_resources (
	reservation_unit_id BIGINT NOT NULL REFERENCES reservation_units(id) ON DELETE CASCADE,
	resource_id BIGINT NOT NULL,
	PRIMARY KEY (reservation_unit_id, resource_id)
);
CREATE INDEX IF NOT EXISTS idx_reservation_unit_resources_resource ON reservation_unit_resources(resource_id);

CREATE TABLE IF NOT EXISTS reservable_time_spans (
	id BIGSERIAL PRIMARY KEY,
	resource_id TEXT NOT NULL,
	start_datetime TIMESTAMPTZ NOT NULL,
	end_datetime TIMESTAMPTZ NOT NULL,
	CHECK (start_datetime < end_datetime)
);
CREATE INDEX IF NOT EXISTS idx_reservable_time_spans_resource_range
	ON reservable_time_spans(resource_id, start_datetime, end_datetime);

CREATE TABLE IF NOT EXISTS applications (
	id BIGSERIAL PRIMARY KEY,
	application_round_id BIGINT NOT NULL,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS application_sections (
	id BIGSERIAL PRIMARY KEY,
	application_id BIGINT NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	num_persons INT NOT NULL DEFAULT 0,
	reservations_begin_date DATE NOT NULL,
	reservations_end_date DATE NOT NULL,
	reservation_min_duration_minutes INT NOT NULL,
	reservation_max_duration_minutes INT NOT NULL,
	applied_reservations_per_week INT NOT NULL CHECK (applied_reservations_per_week >= 1)
);

CREATE TABLE IF NOT EXISTS reservation_unit_options (
	id BIGSERIAL PRIMARY KEY,
	application_section_id BIGINT NOT NULL REFERENCES application_sections(id) ON DELETE CASCADE,
	reservation_unit_id BIGINT NOT NULL REFERENCES reservation_units(id),
	preferred_order INT NOT NULL,
	is_locked BOOLEAN NOT NULL DEFAULT FALSE,
	is_rejected BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (application_section_id, preferred_order)
);

CREATE TABLE IF NOT EXISTS suitable_time_ranges (
	id BIGSERIAL PRIMARY KEY,
	application_section_id BIGINT NOT NULL REFERENCES application_sections(id) ON DELETE CASCADE,
	day_of_week INT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
	begin_time TIME NOT NULL,
	end_time TIME NOT NULL,
	priority TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reservation_series (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	begin_date DATE NOT NULL,
	end_date DATE NOT NULL,
	begin_time TIME NOT NULL,
	end_time TIME NOT NULL,
	weekdays INT[] NOT NULL,
	recurrence_in_days INT NOT NULL,
	reservation_unit_id BIGINT NOT NULL REFERENCES reservation_units(id),
	allocated_time_slot_id BIGINT UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (begin_date <= end_date),
	CHECK (recurrence_in_days > 0 AND recurrence_in_days % 7 = 0)
);

CREATE TABLE IF NOT EXISTS allocated_time_slots (
	id BIGSERIAL PRIMARY KEY,
	reservation_unit_option_id BIGINT NOT NULL REFERENCES reservation_unit_options(id) ON DELETE CASCADE,
	day_of_week INT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
	begin_time TIME NOT NULL,
	end_time TIME NOT NULL,
	reservation_series_id BIGINT REFERENCES reservation_series(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservations (
	id BIGSERIAL PRIMARY KEY,
	ext_uuid UUID NOT NULL UNIQUE,
	begin_datetime TIMESTAMPTZ NOT NULL,
	end_datetime TIMESTAMPTZ NOT NULL,
	buffer_time_before_minutes INT NOT NULL DEFAULT 0,
	buffer_time_after_minutes INT NOT NULL DEFAULT 0,
	state TEXT NOT NULL CHECK (state IN ('CREATED', 'CANCELLED', 'REQUIRES_HANDLING', 'WAITING_FOR_PAYMENT', 'CONFIRMED', 'DENIED')),
	type TEXT NOT NULL CHECK (type IN ('NORMAL', 'BLOCKED', 'STAFF', 'BEHALF', 'SEASONAL')),
	reservation_series_id BIGINT REFERENCES reservation_series(id) ON DELETE CASCADE,
	name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	reservee_name TEXT NOT NULL DEFAULT '',
	num_persons INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (begin_datetime < end_datetime)
);
CREATE INDEX IF NOT EXISTS idx_reservations_series ON reservations(reservation_series_id);

CREATE TABLE IF NOT EXISTS reservation_reservation_units (
	reservation_id BIGINT NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
	reservation_unit_id BIGINT NOT NULL REFERENCES reservation_units(id),
	PRIMARY KEY (reservation_id, reservation_unit_id)
);

CREATE TABLE IF NOT EXISTS rejected_occurrences (
	id BIGSERIAL PRIMARY KEY,
	begin_datetime TIMESTAMPTZ NOT NULL,
	end_datetime TIMESTAMPTZ NOT NULL,
	rejection_reason TEXT NOT NULL,
	reservation_series_id BIGINT NOT NULL REFERENCES reservation_series(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS affecting_time_spans (
	reservation_id BIGINT PRIMARY KEY,
	affected_reservation_unit_ids BIGINT[] NOT NULL,
	buffered_start_datetime TIMESTAMPTZ NOT NULL,
	buffered_end_datetime TIMESTAMPTZ NOT NULL,
	buffer_time_before_minutes INT NOT NULL,
	buffer_time_after_minutes INT NOT NULL,
	is_blocking BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_affecting_time_spans_units
	ON affecting_time_spans USING GIN (affected_reservation_unit_ids);

CREATE TABLE IF NOT EXISTS affecting_time_spans_state (
	id INT PRIMARY KEY CHECK (id = 1),
	refreshed_at TIMESTAMPTZ NOT NULL
);
`

// Migrate создает схему, если она ещё не создана
func Migrate(ctx context.Context, db dbmetrics.DBExecutor) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrations: apply schema: %w", err)
	}
	return nil
}

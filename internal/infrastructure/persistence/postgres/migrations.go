// Package postgres implements the PostgreSQL persistence layer for the ERIO
// Dashboard.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PARTNERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create partners table
-- Version: 001

CREATE TABLE IF NOT EXISTS partners (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(200) NOT NULL,
    country VARCHAR(100) NOT NULL,
    city VARCHAR(100) NOT NULL DEFAULT '',
    lat DOUBLE PRECISION NOT NULL DEFAULT 0,
    lng DOUBLE PRECISION NOT NULL DEFAULT 0,
    students INTEGER NOT NULL DEFAULT 0,
    programs TEXT[] NOT NULL DEFAULT '{}',
    established INTEGER NOT NULL DEFAULT 0,
    partner_type VARCHAR(30) NOT NULL DEFAULT '',
    sign_date VARCHAR(10) NOT NULL DEFAULT '',
    expiry_date VARCHAR(10) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_students CHECK (students >= 0),
    CONSTRAINT valid_partner_type CHECK (partner_type IN ('', 'University', 'Institute', 'College', 'NGO'))
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_partners_country ON partners(country);
CREATE INDEX IF NOT EXISTS idx_partners_created_at ON partners(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_partners_sign_date ON partners(sign_date) WHERE sign_date != '';
`

const migration001Down = `
DROP TABLE IF EXISTS partners;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE CONTENT TABLES
// Activities, campus events, mobility placements and programme offerings.
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create content tables
-- Version: 002

CREATE TABLE IF NOT EXISTS activities (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title VARCHAR(300) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    activity_date VARCHAR(10) NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(activity_date DESC) WHERE activity_date != '';

CREATE TABLE IF NOT EXISTS events (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title VARCHAR(300) NOT NULL,
    place VARCHAR(200) NOT NULL DEFAULT '',
    event_date VARCHAR(10) NOT NULL DEFAULT '',
    short_description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date) WHERE event_date != '';

CREATE TABLE IF NOT EXISTS mobility_programmes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    mobility_type VARCHAR(30) NOT NULL,
    direction VARCHAR(10) NOT NULL,
    participant_name VARCHAR(200) NOT NULL DEFAULT '',
    institution VARCHAR(200) NOT NULL DEFAULT '',
    country VARCHAR(100) NOT NULL DEFAULT '',
    academic_year VARCHAR(20) NOT NULL DEFAULT '',
    start_date VARCHAR(10) NOT NULL DEFAULT '',
    end_date VARCHAR(10) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_mobility_type CHECK (mobility_type IN ('student_exchange', 'faculty_exchange')),
    CONSTRAINT valid_direction CHECK (direction IN ('inbound', 'outbound'))
);

CREATE INDEX IF NOT EXISTS idx_mobility_type_direction ON mobility_programmes(mobility_type, direction);

CREATE TABLE IF NOT EXISTS programme_offerings (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(300) NOT NULL,
    category VARCHAR(20) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    partner_name VARCHAR(200) NOT NULL DEFAULT '',
    start_date VARCHAR(10) NOT NULL DEFAULT '',
    duration_weeks INTEGER NOT NULL DEFAULT 0,
    slots INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_category CHECK (category IN ('exchange', 'research', 'summer')),
    CONSTRAINT valid_slots CHECK (slots >= 0)
);

CREATE INDEX IF NOT EXISTS idx_offerings_category ON programme_offerings(category);
`

const migration002Down = `
DROP TABLE IF EXISTS programme_offerings;
DROP TABLE IF EXISTS mobility_programmes;
DROP TABLE IF EXISTS events;
DROP TABLE IF EXISTS activities;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE STATS AND ADMINS
// The stats table holds a single snapshot row keyed by a fixed id.
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create dashboard_stats and admins tables
-- Version: 003

CREATE TABLE IF NOT EXISTS dashboard_stats (
    id SMALLINT PRIMARY KEY DEFAULT 1,
    partner_universities INTEGER NOT NULL DEFAULT 0,
    active_agreements INTEGER NOT NULL DEFAULT 0,
    student_exchanges INTEGER NOT NULL DEFAULT 0,
    events_this_year INTEGER NOT NULL DEFAULT 0,
    asia_pacific_pct INTEGER NOT NULL DEFAULT 0,
    europe_pct INTEGER NOT NULL DEFAULT 0,
    americas_pct INTEGER NOT NULL DEFAULT 0,
    exchange_programmes INTEGER NOT NULL DEFAULT 0,
    research_programmes INTEGER NOT NULL DEFAULT 0,
    summer_programmes INTEGER NOT NULL DEFAULT 0,
    engagement_score DECIMAL(3,1) NOT NULL DEFAULT 0.0,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT single_row CHECK (id = 1),
    CONSTRAINT valid_score CHECK (engagement_score >= 0 AND engagement_score <= 10)
);

CREATE TABLE IF NOT EXISTS admins (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    name VARCHAR(200) NOT NULL DEFAULT '',
    password_hash VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'admin',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    last_login_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_role CHECK (role IN ('admin', 'editor'))
);

CREATE INDEX IF NOT EXISTS idx_admins_email ON admins(email);
`

const migration003Down = `
DROP TABLE IF EXISTS admins;
DROP TABLE IF EXISTS dashboard_stats;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE VIEW ROLLUPS
// Daily rollup of the Redis view counter. Redis holds the live counters;
// this table is the durable record that survives a cache flush.
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create view_rollups table
-- Version: 004

CREATE TABLE IF NOT EXISTS view_rollups (
    day VARCHAR(10) PRIMARY KEY,
    unique_sessions INTEGER NOT NULL DEFAULT 0,
    running_total BIGINT NOT NULL DEFAULT 0,
    recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_sessions CHECK (unique_sessions >= 0),
    CONSTRAINT valid_total CHECK (running_total >= 0)
);
`

const migration004Down = `
DROP TABLE IF EXISTS view_rollups;
`

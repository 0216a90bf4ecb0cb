package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  date       TEXT NOT NULL,
  location   TEXT NOT NULL,
  organizer  TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

const listEventsSQL = `
SELECT id, name, date, location, organizer
FROM events
ORDER BY created_at, id
`

const getEventSQL = `
SELECT id, name, date, location, organizer
FROM events WHERE id = $1
`

const insertEventSQL = `
INSERT INTO events (id, name, date, location, organizer)
VALUES ($1,$2,$3,$4,$5)
`

const updateEventSQL = `
UPDATE events SET
  name=$2, date=$3, location=$4, organizer=$5, updated_at=now()
WHERE id=$1
`

const deleteEventSQL = `DELETE FROM events WHERE id = $1`

package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    name                 TEXT NOT NULL,
    registration_date    TEXT NOT NULL,
    last_activity_date   TEXT
);

CREATE TABLE IF NOT EXISTS courses (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    name                 TEXT NOT NULL,
    price_minor          INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id              INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    course_id            INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    order_date           TEXT NOT NULL,
    amount_minor         INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_registration ON users(registration_date);
CREATE INDEX IF NOT EXISTS idx_users_activity ON users(last_activity_date);
CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
`

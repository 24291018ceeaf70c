package scaffold

import (
	"fmt"
	"text/template"

	"github.com/forgecli/forge/internal/config"
)

// expressDataAccess selects the data-access module for a database backend.
// Every backend exposes the same contract to the controller:
// connect() -> Promise, list() -> items, create(record) -> stored record,
// throwing DuplicateError on id/name collisions. The in-memory store keeps
// that contract when no database was chosen, so backends stay
// interchangeable.
func expressDataAccess(db config.Database, data *templateData, ts bool) (FileSpec, error) {
	var tmpl *template.Template
	switch {
	case db == config.DBNone && ts:
		tmpl = expressDBMemoryTS
	case db == config.DBNone:
		tmpl = expressDBMemoryJS
	case db == config.DBMongo && ts:
		tmpl = expressDBMongoTS
	case db == config.DBMongo:
		tmpl = expressDBMongoJS
	case db == config.DBMySQL && ts:
		tmpl = expressDBMySQLTS
	case db == config.DBMySQL:
		tmpl = expressDBMySQLJS
	case db == config.DBPostgres && ts:
		tmpl = expressDBPostgresTS
	case db == config.DBPostgres:
		tmpl = expressDBPostgresJS
	case db == config.DBSQLite && ts:
		tmpl = expressDBSQLiteTS
	case db == config.DBSQLite:
		tmpl = expressDBSQLiteJS
	default:
		return FileSpec{}, fmt.Errorf("%w: express data access for %q", ErrUnsupportedVariant, db)
	}

	content, err := render(tmpl, data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "db/index"), content), nil
}

// expressModel selects the domain-model module. MongoDB gets a mongoose
// schema; every other backend gets a plain record factory. Both export
// the error types the middleware dispatches on.
func expressModel(db config.Database, data *templateData, ts bool) (FileSpec, error) {
	var tmpl *template.Template
	switch {
	case db == config.DBMongo && ts:
		tmpl = expressModelMongoTS
	case db == config.DBMongo:
		tmpl = expressModelMongoJS
	case ts:
		tmpl = expressModelPlainTS
	default:
		tmpl = expressModelPlainJS
	}

	content, err := render(tmpl, data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "models/item"), content), nil
}

// --- domain model: plain record factory ---

var expressModelPlainJS = mustTemplate("express-model-js", `class DuplicateError extends Error {}

class ValidationError extends Error {}

function makeItem(payload) {
  if (!payload || typeof payload.name !== "string" || payload.name.trim() === "") {
    throw new ValidationError("item requires a non-empty name");
  }
  return { name: payload.name.trim() };
}

module.exports = { DuplicateError, ValidationError, makeItem };
`)

var expressModelPlainTS = mustTemplate("express-model-ts", `export class DuplicateError extends Error {}

export class ValidationError extends Error {}

export interface Item {
  id?: number;
  name: string;
}

export function makeItem(payload: unknown): Item {
  const candidate = payload as { name?: unknown } | null;
  if (!candidate || typeof candidate.name !== "string" || candidate.name.trim() === "") {
    throw new ValidationError("item requires a non-empty name");
  }
  return { name: candidate.name.trim() };
}
`)

// --- domain model: mongoose schema ---

var expressModelMongoJS = mustTemplate("express-model-mongo-js", `const mongoose = require("mongoose");

class DuplicateError extends Error {}

class ValidationError extends Error {}

const itemSchema = new mongoose.Schema(
  {
    name: { type: String, required: true, unique: true, trim: true },
  },
  { timestamps: true }
);

const Item = mongoose.model("Item", itemSchema);

function makeItem(payload) {
  if (!payload || typeof payload.name !== "string" || payload.name.trim() === "") {
    throw new ValidationError("item requires a non-empty name");
  }
  return { name: payload.name.trim() };
}

module.exports = { DuplicateError, ValidationError, Item, makeItem };
`)

var expressModelMongoTS = mustTemplate("express-model-mongo-ts", `import mongoose from "mongoose";

export class DuplicateError extends Error {}

export class ValidationError extends Error {}

export interface Item {
  name: string;
}

const itemSchema = new mongoose.Schema(
  {
    name: { type: String, required: true, unique: true, trim: true },
  },
  { timestamps: true }
);

export const ItemModel = mongoose.model("Item", itemSchema);

export function makeItem(payload: unknown): Item {
  const candidate = payload as { name?: unknown } | null;
  if (!candidate || typeof candidate.name !== "string" || candidate.name.trim() === "") {
    throw new ValidationError("item requires a non-empty name");
  }
  return { name: candidate.name.trim() };
}
`)

// --- data access: in-memory placeholder ---

var expressDBMemoryJS = mustTemplate("express-db-memory-js", `const { DuplicateError, makeItem } = require("../models/item");

const items = [
  { id: 1, name: "First item" },
  { id: 2, name: "Second item" },
];
let nextId = 3;

async function connect() {
  // Nothing to connect; the store lives in process memory.
}

async function list() {
  return items;
}

async function create(payload) {
  const item = makeItem(payload);
  if (items.some((existing) => existing.name === item.name)) {
    throw new DuplicateError("item " + item.name + " already exists");
  }
  const stored = { id: nextId, name: item.name };
  nextId += 1;
  items.push(stored);
  return stored;
}

module.exports = { connect, list, create };
`)

var expressDBMemoryTS = mustTemplate("express-db-memory-ts", `import { DuplicateError, Item, makeItem } from "../models/item";

const items: Item[] = [
  { id: 1, name: "First item" },
  { id: 2, name: "Second item" },
];
let nextId = 3;

export async function connect(): Promise<void> {
  // Nothing to connect; the store lives in process memory.
}

export async function list(): Promise<Item[]> {
  return items;
}

export async function create(payload: unknown): Promise<Item> {
  const item = makeItem(payload);
  if (items.some((existing) => existing.name === item.name)) {
    throw new DuplicateError("item " + item.name + " already exists");
  }
  const stored: Item = { id: nextId, name: item.name };
  nextId += 1;
  items.push(stored);
  return stored;
}
`)

// --- data access: MongoDB via mongoose ---

var expressDBMongoJS = mustTemplate("express-db-mongo-js", `const mongoose = require("mongoose");

const { DuplicateError, Item, makeItem } = require("../models/item");

const CONNECT_RETRIES = {{.ConnectRetries}};
const RETRY_DELAY_MS = {{.RetryDelayMS}};

function delay(ms) {
  return new Promise((resolve) => setTimeout(resolve, ms));
}

async function connect() {
  const uri = process.env.MONGODB_URI;
  for (let attempt = 1; attempt <= CONNECT_RETRIES; attempt += 1) {
    try {
      await mongoose.connect(uri);
      return;
    } catch (err) {
      console.error("mongodb connection attempt " + attempt + "/" + CONNECT_RETRIES + " failed:", err.message);
      if (attempt === CONNECT_RETRIES) {
        process.exit(1);
      }
      await delay(RETRY_DELAY_MS);
    }
  }
}

async function list() {
  return Item.find().lean();
}

async function create(payload) {
  const item = makeItem(payload);
  const existing = await Item.findOne({ name: item.name }).lean();
  if (existing) {
    throw new DuplicateError("item " + item.name + " already exists");
  }
  const stored = await Item.create(item);
  return stored.toObject();
}

module.exports = { connect, list, create };
`)

var expressDBMongoTS = mustTemplate("express-db-mongo-ts", `import mongoose from "mongoose";

import { DuplicateError, Item, ItemModel, makeItem } from "../models/item";

const CONNECT_RETRIES = {{.ConnectRetries}};
const RETRY_DELAY_MS = {{.RetryDelayMS}};

function delay(ms: number): Promise<void> {
  return new Promise((resolve) => setTimeout(resolve, ms));
}

export async function connect(): Promise<void> {
  const uri = process.env.MONGODB_URI as string;
  for (let attempt = 1; attempt <= CONNECT_RETRIES; attempt += 1) {
    try {
      await mongoose.connect(uri);
      return;
    } catch (err) {
      console.error("mongodb connection attempt " + attempt + "/" + CONNECT_RETRIES + " failed:", (err as Error).message);
      if (attempt === CONNECT_RETRIES) {
        process.exit(1);
      }
      await delay(RETRY_DELAY_MS);
    }
  }
}

export async function list(): Promise<Item[]> {
  return ItemModel.find().lean();
}

export async function create(payload: unknown): Promise<Item> {
  const item = makeItem(payload);
  const existing = await ItemModel.findOne({ name: item.name }).lean();
  if (existing) {
    throw new DuplicateError("item " + item.name + " already exists");
  }
  const stored = await ItemModel.create(item);
  return stored.toObject();
}
`)

// --- data access: MySQL via mysql2 ---

var expressDBMySQLJS = mustTemplate("express-db-mysql-js", `const mysql = require("mysql2/promise");

const { DuplicateError, makeItem } = require("../models/item");

const CONNECT_RETRIES = {{.ConnectRetries}};
const RETRY_DELAY_MS = {{.RetryDelayMS}};

let pool;

function delay(ms) {
  return new Promise((resolve) => setTimeout(resolve, ms));
}

async function connect() {
  for (let attempt = 1; attempt <= CONNECT_RETRIES; attempt += 1) {
    try {
      pool = mysql.createPool({
        host: process.env.DB_HOST,
        port: Number(process.env.DB_PORT) || {{.DBPort}},
        user: process.env.DB_USER,
        password: process.env.DB_PASSWORD,
        database: process.env.DB_NAME,
      });
      await pool.query(
        "CREATE TABLE IF NOT EXISTS items (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(255) NOT NULL UNIQUE)"
      );
      return;
    } catch (err) {
      console.error("mysql connection attempt " + attempt + "/" + CONNECT_RETRIES + " failed:", err.message);
      if (attempt === CONNECT_RETRIES) {
        process.exit(1);
      }
      await delay(RETRY_DELAY_MS);
    }
  }
}

async function list() {
  const [rows] = await pool.query("SELECT id, name FROM items ORDER BY id");
  return rows;
}

async function create(payload) {
  const item = makeItem(payload);
  try {
    const [result] = await pool.query("INSERT INTO items (name) VALUES (?)", [item.name]);
    return { id: result.insertId, name: item.name };
  } catch (err) {
    if (err.code === "ER_DUP_ENTRY") {
      throw new DuplicateError("item " + item.name + " already exists");
    }
    throw err;
  }
}

module.exports = { connect, list, create };
`)

var expressDBMySQLTS = mustTemplate("express-db-mysql-ts", `import mysql, { Pool, ResultSetHeader, RowDataPacket } from "mysql2/promise";

import { DuplicateError, Item, makeItem } from "../models/item";

const CONNECT_RETRIES = {{.ConnectRetries}};
const RETRY_DELAY_MS = {{.RetryDelayMS}};

let pool: Pool;

function delay(ms: number): Promise<void> {
  return new Promise((resolve) => setTimeout(resolve, ms));
}

export async function connect(): Promise<void> {
  for (let attempt = 1; attempt <= CONNECT_RETRIES; attempt += 1) {
    try {
      pool = mysql.createPool({
        host: process.env.DB_HOST,
        port: Number(process.env.DB_PORT) || {{.DBPort}},
        user: process.env.DB_USER,
        password: process.env.DB_PASSWORD,
        database: process.env.DB_NAME,
      });
      await pool.query(
        "CREATE TABLE IF NOT EXISTS items (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(255) NOT NULL UNIQUE)"
      );
      return;
    } catch (err) {
      console.error("mysql connection attempt " + attempt + "/" + CONNECT_RETRIES + " failed:", (err as Error).message);
      if (attempt === CONNECT_RETRIES) {
        process.exit(1);
      }
      await delay(RETRY_DELAY_MS);
    }
  }
}

export async function list(): Promise<Item[]> {
  const [rows] = await pool.query<RowDataPacket[]>("SELECT id, name FROM items ORDER BY id");
  return rows as Item[];
}

export async function create(payload: unknown): Promise<Item> {
  const item = makeItem(payload);
  try {
    const [result] = await pool.query<ResultSetHeader>("INSERT INTO items (name) VALUES (?)", [item.name]);
    return { id: result.insertId, name: item.name };
  } catch (err) {
    if ((err as { code?: string }).code === "ER_DUP_ENTRY") {
      throw new DuplicateError("item " + item.name + " already exists");
    }
    throw err;
  }
}
`)

// --- data access: PostgreSQL via pg ---

var expressDBPostgresJS = mustTemplate("express-db-postgres-js", `const { Pool } = require("pg");

const { DuplicateError, makeItem } = require("../models/item");

const CONNECT_RETRIES = {{.ConnectRetries}};
const RETRY_DELAY_MS = {{.RetryDelayMS}};

let pool;

function delay(ms) {
  return new Promise((resolve) => setTimeout(resolve, ms));
}

async function connect() {
  for (let attempt = 1; attempt <= CONNECT_RETRIES; attempt += 1) {
    try {
      pool = new Pool({
        host: process.env.DB_HOST,
        port: Number(process.env.DB_PORT) || {{.DBPort}},
        user: process.env.DB_USER,
        password: process.env.DB_PASSWORD,
        database: process.env.DB_NAME,
      });
      await pool.query(
        "CREATE TABLE IF NOT EXISTS items (id SERIAL PRIMARY KEY, name TEXT NOT NULL UNIQUE)"
      );
      return;
    } catch (err) {
      console.error("postgres connection attempt " + attempt + "/" + CONNECT_RETRIES + " failed:", err.message);
      if (attempt === CONNECT_RETRIES) {
        process.exit(1);
      }
      await delay(RETRY_DELAY_MS);
    }
  }
}

async function list() {
  const result = await pool.query("SELECT id, name FROM items ORDER BY id");
  return result.rows;
}

async function create(payload) {
  const item = makeItem(payload);
  try {
    const result = await pool.query("INSERT INTO items (name) VALUES ($1) RETURNING id, name", [item.name]);
    return result.rows[0];
  } catch (err) {
    if (err.code === "23505") {
      throw new DuplicateError("item " + item.name + " already exists");
    }
    throw err;
  }
}

module.exports = { connect, list, create };
`)

var expressDBPostgresTS = mustTemplate("express-db-postgres-ts", `import { Pool } from "pg";

import { DuplicateError, Item, makeItem } from "../models/item";

const CONNECT_RETRIES = {{.ConnectRetries}};
const RETRY_DELAY_MS = {{.RetryDelayMS}};

let pool: Pool;

function delay(ms: number): Promise<void> {
  return new Promise((resolve) => setTimeout(resolve, ms));
}

export async function connect(): Promise<void> {
  for (let attempt = 1; attempt <= CONNECT_RETRIES; attempt += 1) {
    try {
      pool = new Pool({
        host: process.env.DB_HOST,
        port: Number(process.env.DB_PORT) || {{.DBPort}},
        user: process.env.DB_USER,
        password: process.env.DB_PASSWORD,
        database: process.env.DB_NAME,
      });
      await pool.query(
        "CREATE TABLE IF NOT EXISTS items (id SERIAL PRIMARY KEY, name TEXT NOT NULL UNIQUE)"
      );
      return;
    } catch (err) {
      console.error("postgres connection attempt " + attempt + "/" + CONNECT_RETRIES + " failed:", (err as Error).message);
      if (attempt === CONNECT_RETRIES) {
        process.exit(1);
      }
      await delay(RETRY_DELAY_MS);
    }
  }
}

export async function list(): Promise<Item[]> {
  const result = await pool.query("SELECT id, name FROM items ORDER BY id");
  return result.rows as Item[];
}

export async function create(payload: unknown): Promise<Item> {
  const item = makeItem(payload);
  try {
    const result = await pool.query("INSERT INTO items (name) VALUES ($1) RETURNING id, name", [item.name]);
    return result.rows[0] as Item;
  } catch (err) {
    if ((err as { code?: string }).code === "23505") {
      throw new DuplicateError("item " + item.name + " already exists");
    }
    throw err;
  }
}
`)

// --- data access: SQLite via better-sqlite3 ---

var expressDBSQLiteJS = mustTemplate("express-db-sqlite-js", `const fs = require("fs");
const path = require("path");

const Database = require("better-sqlite3");

const { DuplicateError, makeItem } = require("../models/item");

let db;

async function connect() {
  const dbPath = process.env.SQLITE_PATH || "{{.SQLitePath}}";
  fs.mkdirSync(path.dirname(dbPath), { recursive: true });
  db = new Database(dbPath);
  db.exec("CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)");
}

async function list() {
  return db.prepare("SELECT id, name FROM items ORDER BY id").all();
}

async function create(payload) {
  const item = makeItem(payload);
  try {
    const result = db.prepare("INSERT INTO items (name) VALUES (?)").run(item.name);
    return { id: Number(result.lastInsertRowid), name: item.name };
  } catch (err) {
    if (err.code === "SQLITE_CONSTRAINT_UNIQUE") {
      throw new DuplicateError("item " + item.name + " already exists");
    }
    throw err;
  }
}

module.exports = { connect, list, create };
`)

var expressDBSQLiteTS = mustTemplate("express-db-sqlite-ts", `import fs from "fs";
import path from "path";

import Database from "better-sqlite3";

import { DuplicateError, Item, makeItem } from "../models/item";

let db: Database.Database;

export async function connect(): Promise<void> {
  const dbPath = process.env.SQLITE_PATH || "{{.SQLitePath}}";
  fs.mkdirSync(path.dirname(dbPath), { recursive: true });
  db = new Database(dbPath);
  db.exec("CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)");
}

export async function list(): Promise<Item[]> {
  return db.prepare("SELECT id, name FROM items ORDER BY id").all() as Item[];
}

export async function create(payload: unknown): Promise<Item> {
  const item = makeItem(payload);
  try {
    const result = db.prepare("INSERT INTO items (name) VALUES (?)").run(item.name);
    return { id: Number(result.lastInsertRowid), name: item.name };
  } catch (err) {
    if ((err as { code?: string }).code === "SQLITE_CONSTRAINT_UNIQUE") {
      throw new DuplicateError("item " + item.name + " already exists");
    }
    throw err;
  }
}
`)

package scaffold

import (
	"fmt"
	"text/template"

	"github.com/forgecli/forge/internal/config"
)

// generateFlask assembles the Flask batch. Python has no language-mode
// axis, so dispatch here only varies on the database backend.
func generateFlask(cfg *config.Config, data *templateData) ([]FileSpec, error) {
	type roleBuilder struct {
		role    string
		relPath string
		tmpl    *template.Template
	}

	dbTmpl, err := flaskDataAccess(cfg.Database)
	if err != nil {
		return nil, err
	}

	builders := []roleBuilder{
		{"entry point", "app.py", flaskApp},
		{"app config", "config.py", flaskConfig},
		{"data access", "db.py", dbTmpl},
		{"domain model", "models.py", flaskModels},
		{"router", "routes.py", flaskRoutes},
		{"error handlers", "errors.py", flaskErrors},
		{"test suite", "tests/test_items.py", flaskTests},
	}

	specs := make([]FileSpec, 0, len(builders))
	for _, b := range builders {
		content, err := render(b.tmpl, data)
		if err != nil {
			return nil, fmt.Errorf("flask %s: %w", b.role, err)
		}
		specs = append(specs, file(b.relPath, content))
	}
	return specs, nil
}

// flaskDataAccess selects the db.py template for a database backend.
func flaskDataAccess(db config.Database) (*template.Template, error) {
	switch db {
	case config.DBNone:
		return flaskDBMemory, nil
	case config.DBMongo:
		return flaskDBMongo, nil
	case config.DBMySQL, config.DBPostgres, config.DBSQLite:
		return flaskDBSQL, nil
	}
	return nil, fmt.Errorf("%w: flask data access for %q", ErrUnsupportedVariant, db)
}

// --- entry point / app wiring ---

var flaskApp = mustTemplate("flask-app", `from flask import Flask
{{- if .CORS}}
from flask_cors import CORS
{{- end}}

import db
from config import AppConfig
from errors import register_error_handlers
from routes import items_bp


def create_app() -> Flask:
    app = Flask(__name__)
    app.config.from_object(AppConfig)
{{- if .CORS}}
    CORS(app)
{{- end}}
    app.register_blueprint(items_bp, url_prefix="{{.APIPrefix}}/items")
    register_error_handlers(app)
    return app


if __name__ == "__main__":
    db.connect()
    create_app().run(host="0.0.0.0", port=AppConfig.PORT{{if .AutoReload}}, debug=True{{end}})
`)

var flaskConfig = mustTemplate("flask-config", `import os

from dotenv import load_dotenv

load_dotenv()


class AppConfig:
    PORT = int(os.environ.get("PORT", "{{.Port}}"))
    SECRET_KEY = os.environ.get("SECRET_KEY", "")
{{- if eq .Database "mongodb"}}
    MONGODB_URI = os.environ.get("MONGODB_URI", "")
{{- end}}
{{- if or (eq .Database "mysql") (eq .Database "postgres")}}
    DB_HOST = os.environ.get("DB_HOST", "")
    DB_PORT = int(os.environ.get("DB_PORT", "{{.DBPort}}"))
    DB_USER = os.environ.get("DB_USER", "")
    DB_PASSWORD = os.environ.get("DB_PASSWORD", "")
    DB_NAME = os.environ.get("DB_NAME", "")
{{- end}}
{{- if eq .Database "sqlite"}}
    SQLITE_PATH = os.environ.get("SQLITE_PATH", "{{.SQLitePath}}")
{{- end}}
`)

// --- domain model ---

var flaskModels = mustTemplate("flask-models", `class DuplicateError(Exception):
    pass


class ValidationError(Exception):
    pass


def make_item(payload):
    if not isinstance(payload, dict):
        raise ValidationError("item requires a JSON object")
    name = payload.get("name")
    if not isinstance(name, str) or not name.strip():
        raise ValidationError("item requires a non-empty name")
    return {"name": name.strip()}
`)

// --- router ---

var flaskRoutes = mustTemplate("flask-routes", `from flask import Blueprint, jsonify, request

import db
from models import make_item

items_bp = Blueprint("items", __name__)


@items_bp.get("")
def list_items():
    return jsonify(db.list_items())


@items_bp.post("")
def create_item():
    item = make_item(request.get_json(silent=True))
    stored = db.create_item(item)
    return jsonify(stored), 201
`)

// --- error handlers ---

var flaskErrors = mustTemplate("flask-errors", `from flask import Flask, jsonify

from models import DuplicateError, ValidationError


def register_error_handlers(app: Flask) -> None:
    @app.errorhandler(DuplicateError)
    def handle_duplicate(err):
        return jsonify({"error": str(err)}), 409

    @app.errorhandler(ValidationError)
    def handle_validation(err):
        return jsonify({"error": str(err)}), 400

    @app.errorhandler(404)
    def handle_not_found(err):
        return jsonify({"error": "not found"}), 404

    @app.errorhandler(500)
    def handle_internal(err):
        return jsonify({"error": "internal server error"}), 500
`)

// --- data access: in-memory placeholder ---

var flaskDBMemory = mustTemplate("flask-db-memory", `from models import DuplicateError

_items = [
    {"id": 1, "name": "First item"},
    {"id": 2, "name": "Second item"},
]
_next_id = 3


def connect():
    # Nothing to connect; the store lives in process memory.
    pass


def list_items():
    return _items


def create_item(item):
    global _next_id
    if any(existing["name"] == item["name"] for existing in _items):
        raise DuplicateError("item %s already exists" % item["name"])
    stored = {"id": _next_id, "name": item["name"]}
    _next_id += 1
    _items.append(stored)
    return stored
`)

// --- data access: MongoDB via pymongo ---

var flaskDBMongo = mustTemplate("flask-db-mongo", `import sys
import time

from pymongo import MongoClient
from pymongo.errors import PyMongoError

from config import AppConfig
from models import DuplicateError

CONNECT_RETRIES = {{.ConnectRetries}}
RETRY_DELAY_SECONDS = {{.RetryDelayMS}} / 1000

_collection = None


def connect():
    global _collection
    for attempt in range(1, CONNECT_RETRIES + 1):
        try:
            client = MongoClient(AppConfig.MONGODB_URI, serverSelectionTimeoutMS=5000)
            client.admin.command("ping")
            _collection = client.get_default_database()["items"]
            _collection.create_index("name", unique=True)
            return
        except PyMongoError as err:
            print(
                "mongodb connection attempt %d/%d failed: %s" % (attempt, CONNECT_RETRIES, err),
                file=sys.stderr,
            )
            if attempt == CONNECT_RETRIES:
                sys.exit(1)
            time.sleep(RETRY_DELAY_SECONDS)


def list_items():
    return [{"id": str(doc["_id"]), "name": doc["name"]} for doc in _collection.find()]


def create_item(item):
    if _collection.find_one({"name": item["name"]}):
        raise DuplicateError("item %s already exists" % item["name"])
    result = _collection.insert_one(dict(item))
    return {"id": str(result.inserted_id), "name": item["name"]}
`)

// --- data access: relational stores via SQLAlchemy ---

var flaskDBSQL = mustTemplate("flask-db-sql", `import sys
import time

import sqlalchemy
from sqlalchemy import Column, Integer, MetaData, String, Table
from sqlalchemy.exc import IntegrityError, OperationalError

from config import AppConfig
from models import DuplicateError

CONNECT_RETRIES = {{.ConnectRetries}}
RETRY_DELAY_SECONDS = {{.RetryDelayMS}} / 1000

_engine = None
_metadata = MetaData()

items = Table(
    "items",
    _metadata,
    Column("id", Integer, primary_key=True),
    Column("name", String(255), nullable=False, unique=True),
)


def _database_url() -> str:
{{- if eq .Database "mysql"}}
    return "mysql+pymysql://%s:%s@%s:%d/%s" % (
        AppConfig.DB_USER,
        AppConfig.DB_PASSWORD,
        AppConfig.DB_HOST,
        AppConfig.DB_PORT,
        AppConfig.DB_NAME,
    )
{{- else if eq .Database "postgres"}}
    return "postgresql+psycopg2://%s:%s@%s:%d/%s" % (
        AppConfig.DB_USER,
        AppConfig.DB_PASSWORD,
        AppConfig.DB_HOST,
        AppConfig.DB_PORT,
        AppConfig.DB_NAME,
    )
{{- else}}
    return "sqlite:///%s" % AppConfig.SQLITE_PATH
{{- end}}


def connect():
    global _engine
    for attempt in range(1, CONNECT_RETRIES + 1):
        try:
            _engine = sqlalchemy.create_engine(_database_url())
            _metadata.create_all(_engine)
            return
        except OperationalError as err:
            print(
                "database connection attempt %d/%d failed: %s" % (attempt, CONNECT_RETRIES, err),
                file=sys.stderr,
            )
            if attempt == CONNECT_RETRIES:
                sys.exit(1)
            time.sleep(RETRY_DELAY_SECONDS)


def list_items():
    with _engine.connect() as conn:
        rows = conn.execute(sqlalchemy.select(items).order_by(items.c.id)).all()
    return [{"id": row.id, "name": row.name} for row in rows]


def create_item(item):
    try:
        with _engine.begin() as conn:
            result = conn.execute(sqlalchemy.insert(items).values(name=item["name"]))
        return {"id": result.inserted_primary_key[0], "name": item["name"]}
    except IntegrityError:
        raise DuplicateError("item %s already exists" % item["name"])
`)

// --- test suite ---

var flaskTests = mustTemplate("flask-tests", `import pytest

import db
from app import create_app


@pytest.fixture()
def client():
    db.connect()
    app = create_app()
    app.testing = True
    return app.test_client()


def test_list_items(client):
    res = client.get("{{.APIPrefix}}/items")
    assert res.status_code == 200
    assert isinstance(res.get_json(), list)


def test_create_item_requires_name(client):
    res = client.post("{{.APIPrefix}}/items", json={})
    assert res.status_code == 400
`)

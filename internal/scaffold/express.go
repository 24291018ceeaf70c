package scaffold

import (
	"fmt"
	"text/template"

	"github.com/forgecli/forge/internal/config"
)

// generateExpress assembles the Express batch. Each logical role has a
// dedicated builder; the data-access module is selected per database in
// expressDataAccess.
func generateExpress(cfg *config.Config, data *templateData) ([]FileSpec, error) {
	ts := cfg.TypeScript()

	type roleBuilder struct {
		role  string
		build func() (FileSpec, error)
	}
	builders := []roleBuilder{
		{"entry point", func() (FileSpec, error) { return expressEntry(data, ts) }},
		{"app wiring", func() (FileSpec, error) { return expressApp(data, ts) }},
		{"data access", func() (FileSpec, error) { return expressDataAccess(cfg.Database, data, ts) }},
		{"domain model", func() (FileSpec, error) { return expressModel(cfg.Database, data, ts) }},
		{"controller", func() (FileSpec, error) { return expressController(data, ts) }},
		{"router", func() (FileSpec, error) { return expressRouter(data, ts) }},
		{"error middleware", func() (FileSpec, error) { return expressErrorHandler(data, ts) }},
		{"logger util", func() (FileSpec, error) { return expressLogger(data, ts) }},
		{"test suite", func() (FileSpec, error) { return expressTests(data, ts) }},
	}

	specs := make([]FileSpec, 0, len(builders)+1)
	for _, b := range builders {
		spec, err := b.build()
		if err != nil {
			return nil, fmt.Errorf("express %s: %w", b.role, err)
		}
		specs = append(specs, spec)
	}

	if ts {
		spec, err := expressTSConfig(data)
		if err != nil {
			return nil, fmt.Errorf("express build config: %w", err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func srcPath(data *templateData, name string) string {
	return "src/" + name + "." + data.Ext
}

// pick returns the typescript or javascript variant of a role template.
func pick(ts bool, tsTmpl, jsTmpl *template.Template) *template.Template {
	if ts {
		return tsTmpl
	}
	return jsTmpl
}

// --- entry point ---

var expressEntryJS = mustTemplate("express-entry-js", `require("dotenv").config();

const app = require("./app");
const db = require("./db");

const port = Number(process.env.PORT) || {{.Port}};

db.connect()
  .then(() => {
    app.listen(port, () => {
      console.log("{{.ProjectName}} listening on port " + port);
    });
  })
  .catch((err) => {
    console.error("failed to initialize data access:", err);
    process.exit(1);
  });
`)

var expressEntryTS = mustTemplate("express-entry-ts", `import "dotenv/config";

import app from "./app";
import * as db from "./db";

const port = Number(process.env.PORT) || {{.Port}};

db.connect()
  .then(() => {
    app.listen(port, () => {
      console.log("{{.ProjectName}} listening on port " + port);
    });
  })
  .catch((err) => {
    console.error("failed to initialize data access:", err);
    process.exit(1);
  });
`)

func expressEntry(data *templateData, ts bool) (FileSpec, error) {
	content, err := render(pick(ts, expressEntryTS, expressEntryJS), data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "index"), content), nil
}

// --- app wiring ---

var expressAppJS = mustTemplate("express-app-js", `const express = require("express");
{{- if .CORS}}
const cors = require("cors");
{{- end}}

const itemRoutes = require("./routes/items");
const { errorHandler, notFound } = require("./middleware/errorHandler");
const { requestLogger } = require("./utils/logger");

const app = express();

app.use(express.json());
{{- if .CORS}}
app.use(cors());
{{- end}}
app.use(requestLogger);

app.use("{{.APIPrefix}}/items", itemRoutes);

app.use(notFound);
app.use(errorHandler);

module.exports = app;
`)

var expressAppTS = mustTemplate("express-app-ts", `import express from "express";
{{- if .CORS}}
import cors from "cors";
{{- end}}

import itemRoutes from "./routes/items";
import { errorHandler, notFound } from "./middleware/errorHandler";
import { requestLogger } from "./utils/logger";

const app = express();

app.use(express.json());
{{- if .CORS}}
app.use(cors());
{{- end}}
app.use(requestLogger);

app.use("{{.APIPrefix}}/items", itemRoutes);

app.use(notFound);
app.use(errorHandler);

export default app;
`)

func expressApp(data *templateData, ts bool) (FileSpec, error) {
	content, err := render(pick(ts, expressAppTS, expressAppJS), data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "app"), content), nil
}

// --- controller ---

var expressControllerJS = mustTemplate("express-controller-js", `const db = require("../db");

async function listItems(req, res, next) {
  try {
    const items = await db.list();
    res.json(items);
  } catch (err) {
    next(err);
  }
}

async function createItem(req, res, next) {
  try {
    const stored = await db.create(req.body);
    res.status(201).json(stored);
  } catch (err) {
    next(err);
  }
}

module.exports = { listItems, createItem };
`)

var expressControllerTS = mustTemplate("express-controller-ts", `import { NextFunction, Request, Response } from "express";

import * as db from "../db";

export async function listItems(req: Request, res: Response, next: NextFunction): Promise<void> {
  try {
    const items = await db.list();
    res.json(items);
  } catch (err) {
    next(err);
  }
}

export async function createItem(req: Request, res: Response, next: NextFunction): Promise<void> {
  try {
    const stored = await db.create(req.body);
    res.status(201).json(stored);
  } catch (err) {
    next(err);
  }
}
`)

func expressController(data *templateData, ts bool) (FileSpec, error) {
	content, err := render(pick(ts, expressControllerTS, expressControllerJS), data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "controllers/items"), content), nil
}

// --- router ---

var expressRouterJS = mustTemplate("express-router-js", `const { Router } = require("express");

const controller = require("../controllers/items");

const router = Router();

router.get("/", controller.listItems);
router.post("/", controller.createItem);

module.exports = router;
`)

var expressRouterTS = mustTemplate("express-router-ts", `import { Router } from "express";

import * as controller from "../controllers/items";

const router = Router();

router.get("/", controller.listItems);
router.post("/", controller.createItem);

export default router;
`)

func expressRouter(data *templateData, ts bool) (FileSpec, error) {
	content, err := render(pick(ts, expressRouterTS, expressRouterJS), data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "routes/items"), content), nil
}

// --- error middleware ---

var expressErrorHandlerJS = mustTemplate("express-errors-js", `const { DuplicateError, ValidationError } = require("../models/item");

function notFound(req, res) {
  res.status(404).json({ error: "not found" });
}

function errorHandler(err, req, res, next) {
  if (res.headersSent) {
    return next(err);
  }
  if (err instanceof DuplicateError) {
    return res.status(409).json({ error: err.message });
  }
  if (err instanceof ValidationError) {
    return res.status(400).json({ error: err.message });
  }
  console.error(err);
  return res.status(500).json({ error: "internal server error" });
}

module.exports = { errorHandler, notFound };
`)

var expressErrorHandlerTS = mustTemplate("express-errors-ts", `import { NextFunction, Request, Response } from "express";

import { DuplicateError, ValidationError } from "../models/item";

export function notFound(req: Request, res: Response): void {
  res.status(404).json({ error: "not found" });
}

export function errorHandler(err: Error, req: Request, res: Response, next: NextFunction): void {
  if (res.headersSent) {
    next(err);
    return;
  }
  if (err instanceof DuplicateError) {
    res.status(409).json({ error: err.message });
    return;
  }
  if (err instanceof ValidationError) {
    res.status(400).json({ error: err.message });
    return;
  }
  console.error(err);
  res.status(500).json({ error: "internal server error" });
}
`)

func expressErrorHandler(data *templateData, ts bool) (FileSpec, error) {
	content, err := render(pick(ts, expressErrorHandlerTS, expressErrorHandlerJS), data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "middleware/errorHandler"), content), nil
}

// --- logger util ---

var expressLoggerJS = mustTemplate("express-logger-js", `function requestLogger(req, res, next) {
  const start = Date.now();
  res.on("finish", () => {
    const ms = Date.now() - start;
    console.log(req.method + " " + req.originalUrl + " " + res.statusCode + " " + ms + "ms");
  });
  next();
}

module.exports = { requestLogger };
`)

var expressLoggerTS = mustTemplate("express-logger-ts", `import { NextFunction, Request, Response } from "express";

export function requestLogger(req: Request, res: Response, next: NextFunction): void {
  const start = Date.now();
  res.on("finish", () => {
    const ms = Date.now() - start;
    console.log(req.method + " " + req.originalUrl + " " + res.statusCode + " " + ms + "ms");
  });
  next();
}
`)

func expressLogger(data *templateData, ts bool) (FileSpec, error) {
	content, err := render(pick(ts, expressLoggerTS, expressLoggerJS), data)
	if err != nil {
		return FileSpec{}, err
	}
	return file(srcPath(data, "utils/logger"), content), nil
}

// --- test suite ---

var expressTestJS = mustTemplate("express-test-js", `const request = require("supertest");

const app = require("../src/app");
const db = require("../src/db");

beforeAll(async () => {
  await db.connect();
});

describe("GET {{.APIPrefix}}/items", () => {
  it("returns the item collection", async () => {
    const res = await request(app).get("{{.APIPrefix}}/items");
    expect(res.status).toBe(200);
    expect(Array.isArray(res.body)).toBe(true);
  });
});

describe("POST {{.APIPrefix}}/items", () => {
  it("rejects a payload without a name", async () => {
    const res = await request(app).post("{{.APIPrefix}}/items").send({});
    expect(res.status).toBe(400);
  });
});
`)

var expressTestTS = mustTemplate("express-test-ts", `import request from "supertest";

import app from "../src/app";
import * as db from "../src/db";

beforeAll(async () => {
  await db.connect();
});

describe("GET {{.APIPrefix}}/items", () => {
  it("returns the item collection", async () => {
    const res = await request(app).get("{{.APIPrefix}}/items");
    expect(res.status).toBe(200);
    expect(Array.isArray(res.body)).toBe(true);
  });
});

describe("POST {{.APIPrefix}}/items", () => {
  it("rejects a payload without a name", async () => {
    const res = await request(app).post("{{.APIPrefix}}/items").send({});
    expect(res.status).toBe(400);
  });
});
`)

func expressTests(data *templateData, ts bool) (FileSpec, error) {
	content, err := render(pick(ts, expressTestTS, expressTestJS), data)
	if err != nil {
		return FileSpec{}, err
	}
	return file("test/items.test."+data.Ext, content), nil
}

// --- build config (typed mode only) ---

var expressTSConfigTmpl = mustTemplate("express-tsconfig", `{
  "compilerOptions": {
    "target": "ES2022",
    "module": "commonjs",
    "moduleResolution": "node",
    "esModuleInterop": true,
    "strict": true,
    "skipLibCheck": true,
    "outDir": "dist",
    "rootDir": "src",
    "sourceMap": true
  },
  "include": ["src/**/*.ts"],
  "exclude": ["node_modules", "dist", "test"]
}
`)

func expressTSConfig(data *templateData) (FileSpec, error) {
	content, err := render(expressTSConfigTmpl, data)
	if err != nil {
		return FileSpec{}, err
	}
	return file("tsconfig.json", content), nil
}

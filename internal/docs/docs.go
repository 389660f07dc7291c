// Package docs holds the hand-maintained OpenAPI description served under
// /swagger/doc.json.
package docs

// SwaggerJSON is the OpenAPI 2.0 document for the HTTP surface. The host
// placeholder is rewritten per request by the serving handler.
const SwaggerJSON = `{
  "swagger": "2.0",
  "info": {
    "title": "spothinta",
    "description": "Nordic/Baltic spot electricity price cache over api.spot-hinta.fi",
    "version": "1.0.0"
  },
  "host": "localhost:8080",
  "basePath": "/",
  "schemes": ["http"],
  "paths": {
    "/api/v1/price": {
      "get": {
        "summary": "Current spot price for a region",
        "parameters": [
          {"name": "region", "in": "query", "type": "string", "default": "FI"},
          {"name": "variant", "in": "query", "type": "string", "enum": ["with_tax", "without_tax"], "default": "with_tax"}
        ],
        "responses": {
          "200": {"description": "Price document; price is null when no data is cached yet"},
          "400": {"description": "Unknown region or variant"}
        }
      }
    },
    "/api/v1/prices": {
      "get": {
        "summary": "Full cached snapshot for a region",
        "parameters": [
          {"name": "region", "in": "query", "type": "string", "default": "FI"}
        ],
        "responses": {
          "200": {"description": "Series, aggregates and last fetch instant"},
          "400": {"description": "Unknown region"}
        }
      }
    },
    "/api/v1/aggregates": {
      "get": {
        "summary": "Min/max tax-inclusive price over the cached series",
        "parameters": [
          {"name": "region", "in": "query", "type": "string", "default": "FI"}
        ],
        "responses": {
          "200": {"description": "Aggregates document"},
          "400": {"description": "Unknown region"}
        }
      }
    },
    "/api/v1/regions": {
      "get": {
        "summary": "Supported bidding zones",
        "responses": {
          "200": {"description": "Region list"}
        }
      }
    },
    "/api/v1/refresh": {
      "post": {
        "summary": "Force a provider fetch for a region, bypassing the refresh policy",
        "parameters": [
          {"name": "region", "in": "query", "type": "string", "default": "FI"}
        ],
        "responses": {
          "200": {"description": "Refresh completed"},
          "400": {"description": "Unknown region"},
          "429": {"description": "Provider rate limit exceeded"},
          "502": {"description": "Provider request or decode failure"}
        }
      }
    },
    "/api/v1/stream": {
      "get": {
        "summary": "Websocket price stream, one document per quarter-hour tick",
        "parameters": [
          {"name": "region", "in": "query", "type": "string", "default": "FI"},
          {"name": "variant", "in": "query", "type": "string", "enum": ["with_tax", "without_tax"], "default": "with_tax"}
        ],
        "responses": {
          "101": {"description": "Switching protocols"}
        }
      }
    },
    "/health": {
      "get": {
        "summary": "Liveness probe",
        "responses": {
          "200": {"description": "Service is healthy"}
        }
      }
    }
  }
}`

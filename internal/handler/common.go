// Package handler defines the HTTP handlers for the recruitment API.
package handler

import (
    "context"
    "encoding/json"
    "errors"
    "log"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/hireflow/recruitment-api/internal/repository"
)

// getUserID extracts the user_id claim from echo.Context and converts it
// to uint64.  JWT numeric claims decode as float64; older tokens may carry
// strings.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// queryID parses an optional numeric query parameter; absent or malformed
// values yield 0, which repositories treat as "no filter".
func queryID(c echo.Context, name string) uint64 {
    n, _ := strconv.ParseUint(c.QueryParam(name), 10, 64)
    return n
}

// recordAudit appends an audit row describing a mutation.  Audit writes
// are best-effort: a failure is logged and the mutation's response is not
// affected.
func recordAudit(ctx context.Context, audits *repository.AuditRepo, userID uint64, entityType string, entityID uint64, action string, changes any) {
    if audits == nil {
        return
    }
    var raw json.RawMessage
    if changes != nil {
        if b, err := json.Marshal(changes); err == nil {
            raw = b
        }
    }
    if err := audits.Record(ctx, userID, entityType, entityID, action, raw); err != nil {
        log.Printf("audit: record %s %s/%d failed: %v", action, entityType, entityID, err)
    }
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
)

// sapPrefix is prepended to SAP material codes before the lookup; the vulc
// table keys its rows that way.
const sapPrefix = "P"

// NormalizeSAP returns the lookup key for a SAP material code, adding the
// prefix when it is missing.
func NormalizeSAP(code string) string {
	if strings.HasPrefix(code, sapPrefix) {
		return code
	}
	return sapPrefix + code
}

// CustomerPartRepository resolves a SAP material code to at most one
// customer part number.
type CustomerPartRepository interface {
	// CustomerPart returns (part, true, nil) when a row exists and
	// ("", false, nil) when none does.
	CustomerPart(ctx context.Context, sap string) (string, bool, error)
}

// MySQLCustomerPartRepository reads customer parts from the vulc table.
type MySQLCustomerPartRepository struct {
	conns *Conns
}

func NewMySQLCustomerPartRepository(conns *Conns) *MySQLCustomerPartRepository {
	return &MySQLCustomerPartRepository{conns: conns}
}

// customerPartQuery builds the lookup statement for a raw SAP code.
func customerPartQuery(sap string) (string, []interface{}, error) {
	return goqu.Dialect("mysql").
		From("vulc").
		Select("cust_part").
		Where(goqu.Ex{"no_sap": NormalizeSAP(sap)}).
		Limit(1).
		Prepared(true).
		ToSQL()
}

func (r *MySQLCustomerPartRepository) CustomerPart(ctx context.Context, sap string) (string, bool, error) {
	db, err := r.conns.SQL(ctx)
	if err != nil {
		return "", false, err
	}

	query, args, err := customerPartQuery(sap)
	if err != nil {
		return "", false, fmt.Errorf("building customer part query: %w", err)
	}

	var part string
	err = db.QueryRowContext(ctx, query, args...).Scan(&part)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying customer part: %w", err)
	}
	return part, true, nil
}

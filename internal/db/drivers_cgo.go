//go:build cgo

package db

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/godror/godror"
	"github.com/mattn/go-sqlite3"
)

func init() {
	registerExtractor(sqliteCode, oracleCode)
}

func sqliteCode(err error) (string, string, bool) {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return "", "", false
	}
	return strconv.Itoa(int(sqErr.ExtendedCode)), "", true
}

func oracleCode(err error) (string, string, bool) {
	oraErr, ok := godror.AsOraErr(err)
	if !ok {
		return "", "", false
	}
	return fmt.Sprintf("ORA-%05d", oraErr.Code()), "", true
}

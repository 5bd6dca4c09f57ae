package enrich

import (
	"errors"
	"os"
	"runtime"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"crashreporter/src/model"
)

// Fixed annotation keys written by the enricher.
const (
	KeyMachineName    = "MachineName"
	KeyOSVersion      = "OSVersion"
	KeyProcessID      = "ProcessId"
	KeyErrorType      = "ErrorType"
	KeySQLErrorNumber = "SqlErrorNumber"
)

// Rule is one category check: when Match accepts the error, Annotate adds
// its category-specific keys. Rules run in order; adding a category means
// appending a rule, nothing else.
type Rule struct {
	Match    func(err error) bool
	Annotate func(data *model.Annotations, err error)
}

// Enricher attaches environment and category annotations to a captured
// detail record. It writes AdditionalData once, at capture time, and never
// touches a record afterwards.
type Enricher struct {
	rules []Rule
}

// NewEnricher builds an enricher with the built-in I/O and database
// categories plus any extra rules, evaluated after the built-ins.
func NewEnricher(extra ...Rule) *Enricher {
	rules := []Rule{ioRule(), databaseRule()}
	rules = append(rules, extra...)
	return &Enricher{rules: rules}
}

// Enrich writes the ambient environment keys, then every matching category
// rule, into detail.AdditionalData. An error matching no category simply
// receives no category keys.
func (e *Enricher) Enrich(detail *model.ExceptionDetail, err error) {
	if detail == nil {
		return
	}

	detail.AdditionalData.Set(KeyMachineName, machineName())
	detail.AdditionalData.Set(KeyOSVersion, runtime.GOOS+" "+runtime.GOARCH)
	detail.AdditionalData.Set(KeyProcessID, strconv.Itoa(os.Getpid()))

	if err == nil {
		return
	}
	for _, rule := range e.rules {
		if rule.Match(err) {
			rule.Annotate(&detail.AdditionalData, err)
		}
	}
}

func machineName() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

// ioRule matches the platform's file and syscall error shapes.
func ioRule() Rule {
	return Rule{
		Match: func(err error) bool {
			var pathErr *os.PathError
			var linkErr *os.LinkError
			var sysErr *os.SyscallError
			return errors.As(err, &pathErr) ||
				errors.As(err, &linkErr) ||
				errors.As(err, &sysErr)
		},
		Annotate: func(data *model.Annotations, _ error) {
			data.Set(KeyErrorType, "IO Error")
		},
	}
}

// databaseRule matches driver and ORM error shapes. The vendor error number
// is only available from the driver error.
func databaseRule() Rule {
	return Rule{
		Match: func(err error) bool {
			var sqlErr *mysql.MySQLError
			return errors.As(err, &sqlErr) || errors.Is(err, gorm.ErrRecordNotFound)
		},
		Annotate: func(data *model.Annotations, err error) {
			data.Set(KeyErrorType, "Database Error")
			var sqlErr *mysql.MySQLError
			if errors.As(err, &sqlErr) {
				data.Set(KeySQLErrorNumber, strconv.Itoa(int(sqlErr.Number)))
			}
		},
	}
}

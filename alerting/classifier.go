package alerting

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"

	chproto "github.com/ClickHouse/ch-go/proto"
	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PeerDB-io/destkit/shared/exceptions"
)

// ACCESS_DENIED, raised for missing grants; ch-go has no name for it
const chErrAccessDenied chproto.Error = 497

type ErrorAction string

const (
	NotifyUser      ErrorAction = "notify_user"
	Ignore          ErrorAction = "ignore"
	NotifyTelemetry ErrorAction = "notify_telemetry"
)

func (e ErrorAction) String() string {
	return string(e)
}

type ErrorSource string

const (
	ErrorSourceConfig     ErrorSource = "config"
	ErrorSourceClickHouse ErrorSource = "clickhouse"
	ErrorSourcePostgres   ErrorSource = "postgres"
	ErrorSourceMySQL      ErrorSource = "mysql"
	ErrorSourceCatalog    ErrorSource = "catalog"
	ErrorSourceNet        ErrorSource = "net"
	ErrorSourceOther      ErrorSource = "other"
)

func (e ErrorSource) String() string {
	return string(e)
}

type AdditionalErrorAttributeKey string

func (e AdditionalErrorAttributeKey) String() string {
	return string(e)
}

const (
	ErrorAttributeKeyTable  AdditionalErrorAttributeKey = "errorAdditionalAttributeTable"
	ErrorAttributeKeySchema AdditionalErrorAttributeKey = "errorAdditionalAttributeSchema"
)

type ErrorInfo struct {
	AdditionalAttributes map[AdditionalErrorAttributeKey]string
	Source               ErrorSource
	Code                 string
}

type ErrorClass struct {
	Class  string
	action ErrorAction
}

var (
	ErrorNotifyConfig = ErrorClass{
		Class: "NOTIFY_CONFIG", action: NotifyUser,
	}
	ErrorNotifyConnectivity = ErrorClass{
		Class: "NOTIFY_CONNECTIVITY", action: NotifyUser,
	}
	ErrorNotifyInvalidCredentials = ErrorClass{
		Class: "NOTIFY_INVALID_CREDENTIALS", action: NotifyUser,
	}
	ErrorNotifyPermissions = ErrorClass{
		Class: "NOTIFY_PERMISSIONS", action: NotifyUser,
	}
	ErrorNotifyDatabaseMissing = ErrorClass{
		Class: "NOTIFY_DATABASE_MISSING", action: NotifyUser,
	}
	ErrorNotifyDestinationTableMissing = ErrorClass{
		Class: "NOTIFY_DESTINATION_TABLE_MISSING", action: NotifyUser,
	}
	ErrorInternal = ErrorClass{
		Class: "INTERNAL", action: NotifyTelemetry,
	}
	ErrorIgnoreEOF = ErrorClass{
		Class: "IGNORE_EOF", action: Ignore,
	}
	ErrorIgnoreContextCancelled = ErrorClass{
		Class: "IGNORE_CONTEXT_CANCELLED", action: Ignore,
	}
	ErrorOther = ErrorClass{
		// These are unclassified and should not be exposed
		Class: "OTHER", action: NotifyTelemetry,
	}
)

func (e ErrorClass) String() string {
	return e.Class
}

func (e ErrorClass) ErrorAction() ErrorAction {
	if e.action != "" {
		return e.action
	}
	return NotifyTelemetry
}

// GetErrorClass decides who hears about err. A ConfigError anywhere in the chain wins over the
// driver error it may wrap, since its display message is already written for the user.
func GetErrorClass(ctx context.Context, err error) (ErrorClass, ErrorInfo) {
	if errors.Is(err, context.Canceled) {
		return ErrorIgnoreContextCancelled, ErrorInfo{
			Source: ErrorSourceOther,
			Code:   "CONTEXT_CANCELLED",
		}
	}

	if _, ok := exceptions.AsConfigError(err); ok {
		return ErrorNotifyConfig, ErrorInfo{
			Source: ErrorSourceConfig,
			Code:   "CONFIG_ERROR",
		}
	}

	var notFoundErr *exceptions.TableNotFoundError
	if errors.As(err, &notFoundErr) {
		return ErrorNotifyDestinationTableMissing, ErrorInfo{
			Source: ErrorSourceCatalog,
			Code:   "TABLE_DOES_NOT_EXIST",
			AdditionalAttributes: map[AdditionalErrorAttributeKey]string{
				ErrorAttributeKeySchema: notFoundErr.Schema,
				ErrorAttributeKeyTable:  notFoundErr.Table,
			},
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		pgErrorInfo := ErrorInfo{
			Source: ErrorSourcePostgres,
			Code:   pgErr.Code,
		}
		switch pgErr.Code {
		case pgerrcode.InvalidPassword, pgerrcode.InvalidAuthorizationSpecification:
			return ErrorNotifyInvalidCredentials, pgErrorInfo
		case pgerrcode.InsufficientPrivilege:
			return ErrorNotifyPermissions, pgErrorInfo
		case pgerrcode.InvalidCatalogName, pgerrcode.InvalidSchemaName:
			return ErrorNotifyDatabaseMissing, pgErrorInfo
		case pgerrcode.UndefinedTable:
			return ErrorNotifyDestinationTableMissing, pgErrorInfo
		case pgerrcode.CannotConnectNow, pgerrcode.TooManyConnections, pgerrcode.AdminShutdown:
			return ErrorNotifyConnectivity, pgErrorInfo
		}
		return ErrorOther, pgErrorInfo
	}

	var myErr *mysql.MyError
	if errors.As(err, &myErr) {
		myErrorInfo := ErrorInfo{
			Source: ErrorSourceMySQL,
			Code:   strconv.Itoa(int(myErr.Code)),
		}
		switch myErr.Code {
		case mysql.ER_ACCESS_DENIED_ERROR:
			return ErrorNotifyInvalidCredentials, myErrorInfo
		case mysql.ER_DBACCESS_DENIED_ERROR, mysql.ER_TABLEACCESS_DENIED_ERROR:
			return ErrorNotifyPermissions, myErrorInfo
		case mysql.ER_BAD_DB_ERROR:
			return ErrorNotifyDatabaseMissing, myErrorInfo
		case mysql.ER_NO_SUCH_TABLE:
			return ErrorNotifyDestinationTableMissing, myErrorInfo
		}
		return ErrorOther, myErrorInfo
	}

	var chException *clickhouse.Exception
	if errors.As(err, &chException) {
		chErrorInfo := ErrorInfo{
			Source: ErrorSourceClickHouse,
			Code:   strconv.Itoa(int(chException.Code)),
		}
		switch chproto.Error(chException.Code) {
		case chproto.ErrAuthenticationFailed:
			return ErrorNotifyInvalidCredentials, chErrorInfo
		case chproto.ErrDatabaseAccessDenied, chErrAccessDenied:
			return ErrorNotifyPermissions, chErrorInfo
		case chproto.ErrUnknownDatabase:
			return ErrorNotifyDatabaseMissing, chErrorInfo
		case chproto.ErrUnknownTable:
			return ErrorNotifyDestinationTableMissing, chErrorInfo
		}
		return ErrorOther, chErrorInfo
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrorIgnoreEOF, ErrorInfo{
			Source: ErrorSourceNet,
			Code:   "EOF",
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorNotifyConnectivity, ErrorInfo{
			Source: ErrorSourceNet,
			Code:   "net.DNSError",
		}
	}

	var pgConnErr *pgconn.ConnectError
	if errors.As(err, &pgConnErr) {
		return ErrorNotifyConnectivity, ErrorInfo{
			Source: ErrorSourcePostgres,
			Code:   "UNKNOWN",
		}
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		code := "net.OpError"
		if netErr.Err != nil {
			code = netErr.Err.Error()
		}
		return ErrorNotifyConnectivity, ErrorInfo{
			Source: ErrorSourceNet,
			Code:   code,
		}
	}

	var catalogErr *exceptions.CatalogError
	if errors.As(err, &catalogErr) {
		return ErrorInternal, ErrorInfo{
			Source: ErrorSourceCatalog,
			Code:   "UNKNOWN",
		}
	}

	var peerCreateErr *exceptions.PeerCreateError
	if errors.As(err, &peerCreateErr) {
		return ErrorNotifyConnectivity, ErrorInfo{
			Source: ErrorSourceOther,
			Code:   "PEER_CREATE",
		}
	}

	return ErrorOther, ErrorInfo{
		Source: ErrorSourceOther,
		Code:   "UNKNOWN",
	}
}

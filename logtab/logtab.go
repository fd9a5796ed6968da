// Package logtab converts syslog-style log lines into tabular.Data,
// splitting each line into fixed structural columns (timestamp, host,
// service, pid) plus a classified message type and its extracted
// parameters, so the compressor sees repetitive, dictionary- and
// range-friendly columns instead of one high-entropy text blob per line.
package logtab

import (
	"strconv"
	"strings"

	"github.com/als-project/als/tabular"
)

// MessageType is a coarse classification of a log message's shape, used so
// that structurally identical messages collapse to the same short token in
// the msg_type column regardless of their variable parameters.
type MessageType string

const (
	MessageAuthFailure    MessageType = "auth_fail"
	MessageCheckPass      MessageType = "check_pass"
	MessageSessionOpened  MessageType = "sess_open"
	MessageSessionClosed  MessageType = "sess_close"
	MessageFtpConnection  MessageType = "ftp_conn"
	MessageFtpTimeout     MessageType = "ftp_timeout"
	MessageServiceStatus  MessageType = "svc_status"
	MessageLogRotate      MessageType = "logrotate"
	MessageSyslogRestart  MessageType = "syslog_restart"
	MessageSnmpPacket     MessageType = "snmp"
	MessageKerberosAuth   MessageType = "kerberos"
	MessageParseError     MessageType = "parse_error"
	MessageOther          MessageType = "other"
)

// Params holds the fields classify extracts out of a message body. Only the
// fields relevant to the matched MessageType are populated.
type Params struct {
	RHost        string
	User         string
	IP           string
	ResolvedHost string
	Status       string
	ExitCode     int
	HasExitCode  bool
}

// Entry is a single parsed log line.
type Entry struct {
	Month       string
	Day         int
	Time        string
	Hostname    string
	Service     string
	PID         int
	HasPID      bool
	Message     string
	MessageType MessageType
	Params      Params
}

// Parse splits input into lines and parses each as a syslog-format entry:
// "<Month> <Day> <Time> <Hostname> <Service>[<PID>]: <Message>". Lines that
// don't fit the format are kept with MessageParseError and the trimmed
// original text in Message, so no input line is silently dropped.
func Parse(input string) []Entry {
	lines := strings.Split(input, "\n")
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		entry, ok := parseLine(trimmed)
		if !ok {
			entries = append(entries, Entry{MessageType: MessageParseError, Message: trimmed})
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// ToTabular converts input into column-oriented tabular.Data with ten
// columns: month, day, time, hostname, service, pid, msg_type, rhost, user,
// message. Structural fields that don't apply to a given entry (pid, rhost,
// user) are stored as tabular.Null so ranges and dictionaries still form
// over the fields that do.
func ToTabular(input string) (tabular.Data, error) {
	entries := Parse(input)
	if len(entries) == 0 {
		return tabular.New(nil)
	}

	months := make([]tabular.Value, len(entries))
	days := make([]tabular.Value, len(entries))
	times := make([]tabular.Value, len(entries))
	hostnames := make([]tabular.Value, len(entries))
	services := make([]tabular.Value, len(entries))
	pids := make([]tabular.Value, len(entries))
	msgTypes := make([]tabular.Value, len(entries))
	rhosts := make([]tabular.Value, len(entries))
	users := make([]tabular.Value, len(entries))
	messages := make([]tabular.Value, len(entries))

	for i, e := range entries {
		if e.MessageType == MessageParseError {
			months[i], days[i], times[i] = tabular.Null(), tabular.Null(), tabular.Null()
			hostnames[i], services[i], pids[i] = tabular.Null(), tabular.Null(), tabular.Null()
			msgTypes[i] = tabular.Str(string(MessageParseError))
			rhosts[i], users[i] = tabular.Null(), tabular.Null()
			messages[i] = tabular.Str(e.Message)
			continue
		}

		months[i] = tabular.Str(e.Month)
		days[i] = tabular.Int(int64(e.Day))
		times[i] = tabular.Str(e.Time)
		hostnames[i] = tabular.Str(e.Hostname)
		services[i] = tabular.Str(e.Service)
		if e.HasPID {
			pids[i] = tabular.Int(int64(e.PID))
		} else {
			pids[i] = tabular.Null()
		}
		msgTypes[i] = tabular.Str(string(e.MessageType))
		if e.Params.RHost != "" {
			rhosts[i] = tabular.Str(e.Params.RHost)
		} else {
			rhosts[i] = tabular.Null()
		}
		if e.Params.User != "" {
			users[i] = tabular.Str(e.Params.User)
		} else {
			users[i] = tabular.Null()
		}
		messages[i] = tabular.Str(e.Message)
	}

	columns := []tabular.Column{
		tabular.NewColumn("month", months),
		tabular.NewColumn("day", days),
		tabular.NewColumn("time", times),
		tabular.NewColumn("hostname", hostnames),
		tabular.NewColumn("service", services),
		tabular.NewColumn("pid", pids),
		tabular.NewColumn("msg_type", msgTypes),
		tabular.NewColumn("rhost", rhosts),
		tabular.NewColumn("user", users),
		tabular.NewColumn("message", messages),
	}
	return tabular.New(columns)
}

// ToSyslog reconstructs approximate syslog lines from tabular data produced
// by ToTabular. Columns that aren't present are rendered empty; this is a
// best-effort inverse, not a byte-exact one, since message classification
// discards some of the original formatting.
func ToSyslog(data tabular.Data) string {
	if data.IsEmpty() || data.ColumnCount() == 0 {
		return ""
	}

	month, hasMonth := data.Column("month")
	day, hasDay := data.Column("day")
	timeCol, hasTime := data.Column("time")
	hostname, hasHostname := data.Column("hostname")
	service, hasService := data.Column("service")
	pid, hasPID := data.Column("pid")
	message, hasMessage := data.Column("message")

	var b strings.Builder
	for row := 0; row < data.RowCount; row++ {
		field := func(col tabular.Column, present bool) string {
			if !present || row >= len(col.Values) || col.Values[row].IsNull() {
				return ""
			}
			return col.Values[row].StringRepr()
		}

		b.WriteString(field(month, hasMonth))
		b.WriteByte(' ')
		b.WriteString(field(day, hasDay))
		b.WriteByte(' ')
		b.WriteString(field(timeCol, hasTime))
		b.WriteByte(' ')
		b.WriteString(field(hostname, hasHostname))
		b.WriteByte(' ')
		b.WriteString(field(service, hasService))
		if hasPID && row < len(pid.Values) && !pid.Values[row].IsNull() {
			b.WriteByte('[')
			b.WriteString(pid.Values[row].StringRepr())
			b.WriteByte(']')
		}
		b.WriteString(": ")
		b.WriteString(field(message, hasMessage))
		b.WriteByte('\n')
	}
	return b.String()
}

func parseLine(line string) (Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Entry{}, false
	}

	month := fields[0]
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, false
	}
	timeField := fields[2]
	hostname := fields[3]

	rest, ok := restAfterField(line, 4)
	if !ok {
		return Entry{}, false
	}

	service, pid, hasPID, message, ok := parseServiceAndMessage(rest)
	if !ok {
		return Entry{}, false
	}

	msgType, params := classify(message)

	return Entry{
		Month:       month,
		Day:         day,
		Time:        timeField,
		Hostname:    hostname,
		Service:     service,
		PID:         pid,
		HasPID:      hasPID,
		Message:     message,
		MessageType: msgType,
		Params:      params,
	}, true
}

// restAfterField returns the remainder of line after skipping n
// whitespace-separated fields, trimmed of leading space, preserving the
// original spacing of the tail (which parseServiceAndMessage needs intact
// since messages may contain runs of spaces that matter for extraction).
func restAfterField(line string, n int) (string, bool) {
	fieldCount := 0
	inField := false
	for i, r := range line {
		if r == ' ' || r == '\t' {
			if inField {
				fieldCount++
				if fieldCount == n {
					return strings.TrimLeft(line[i:], " \t"), true
				}
				inField = false
			}
			continue
		}
		inField = true
	}
	return "", false
}

func parseServiceAndMessage(input string) (service string, pid int, hasPID bool, message string, ok bool) {
	colon := strings.Index(input, ":")
	if colon < 0 {
		return "", 0, false, "", false
	}
	servicePart := input[:colon]
	message = strings.TrimLeft(input[colon+1:], " \t")

	if open := strings.IndexByte(servicePart, '['); open >= 0 {
		if closeIdx := strings.IndexByte(servicePart, ']'); closeIdx > open {
			service = servicePart[:open]
			if p, err := strconv.Atoi(servicePart[open+1 : closeIdx]); err == nil {
				return service, p, true, message, true
			}
			return service, 0, false, message, true
		}
	}
	return servicePart, 0, false, message, true
}

func classify(message string) (MessageType, Params) {
	var p Params

	switch {
	case strings.HasPrefix(message, "authentication failure"):
		p.RHost = extractParam(message, "rhost=")
		p.User = extractParam(message, "user=")
		return MessageAuthFailure, p

	case strings.HasPrefix(message, "check pass"):
		return MessageCheckPass, p

	case strings.HasPrefix(message, "session opened"):
		p.User = extractSessionUser(message)
		return MessageSessionOpened, p

	case strings.HasPrefix(message, "session closed"):
		p.User = extractSessionUser(message)
		return MessageSessionClosed, p

	case strings.HasPrefix(message, "connection from"):
		p.IP, p.ResolvedHost = extractFtpConnection(message)
		return MessageFtpConnection, p

	case strings.Contains(message, "timed out"):
		return MessageFtpTimeout, p

	case strings.Contains(message, "startup succeeded") || strings.Contains(message, "shutdown succeeded"):
		if strings.Contains(message, "startup") {
			p.Status = "startup"
		} else {
			p.Status = "shutdown"
		}
		return MessageServiceStatus, p

	case strings.HasPrefix(message, "ALERT exited abnormally"):
		if code, ok := extractExitCode(message); ok {
			p.ExitCode, p.HasExitCode = code, true
		}
		return MessageLogRotate, p

	case strings.Contains(message, "restart"):
		return MessageSyslogRestart, p

	case strings.HasPrefix(message, "Received SNMP"):
		p.IP = extractAfterMarker(message, "from ", " ")
		return MessageSnmpPacket, p

	case strings.Contains(message, "Kerberos") || strings.Contains(message, "Authentication failed from"):
		p.IP = extractAfterMarker(message, "from ", " (")
		return MessageKerberosAuth, p

	default:
		return MessageOther, p
	}
}

// extractParam finds "key=value" among whitespace-separated tokens first,
// falling back to a raw substring search for values that abut other text.
func extractParam(message, key string) string {
	for _, tok := range strings.Fields(message) {
		if strings.HasPrefix(tok, key) {
			return tok[len(key):]
		}
	}
	if start := strings.Index(message, key); start >= 0 {
		rest := message[start+len(key):]
		end := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' })
		if end < 0 {
			end = len(rest)
		}
		return rest[:end]
	}
	return ""
}

func extractSessionUser(message string) string {
	const marker = "for user "
	start := strings.Index(message, marker)
	if start < 0 {
		return ""
	}
	rest := message[start+len(marker):]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		return rest[:end]
	}
	return rest
}

func extractFtpConnection(message string) (ip, host string) {
	const marker = "connection from "
	start := strings.Index(message, marker)
	if start < 0 {
		return "", ""
	}
	rest := message[start+len(marker):]

	ipEnd := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '(' })
	if ipEnd < 0 {
		ipEnd = len(rest)
	}
	ip = rest[:ipEnd]

	openParen := strings.IndexByte(rest, '(')
	closeParen := strings.IndexByte(rest, ')')
	if openParen >= 0 && closeParen > openParen {
		host = rest[openParen+1 : closeParen]
	}
	return ip, host
}

func extractExitCode(message string) (int, bool) {
	start := strings.IndexByte(message, '[')
	end := strings.IndexByte(message, ']')
	if start < 0 || end <= start {
		return 0, false
	}
	code, err := strconv.Atoi(message[start+1 : end])
	if err != nil {
		return 0, false
	}
	return code, true
}

func extractAfterMarker(message, marker, stopChars string) string {
	start := strings.Index(message, marker)
	if start < 0 {
		return ""
	}
	rest := message[start+len(marker):]
	end := strings.IndexAny(rest, stopChars)
	if end < 0 {
		end = len(rest)
	}
	return rest[:end]
}

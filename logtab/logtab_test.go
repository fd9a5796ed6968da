package logtab

import (
	"strings"
	"testing"
)

func TestParseEmpty(t *testing.T) {
	if entries := Parse(""); len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestParseAuthFailure(t *testing.T) {
	log := "Jun 14 15:16:01 combo sshd(pam_unix)[19939]: authentication failure; logname= uid=0 euid=0 tty=NODEVssh ruser= rhost=218.188.2.4"
	entries := Parse(log)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Month != "Jun" || e.Day != 14 || e.Time != "15:16:01" || e.Hostname != "combo" {
		t.Errorf("unexpected structural fields: %+v", e)
	}
	if e.Service != "sshd(pam_unix)" || !e.HasPID || e.PID != 19939 {
		t.Errorf("unexpected service/pid: %+v", e)
	}
	if e.MessageType != MessageAuthFailure {
		t.Errorf("expected auth_fail, got %s", e.MessageType)
	}
	if e.Params.RHost != "218.188.2.4" {
		t.Errorf("expected rhost 218.188.2.4, got %q", e.Params.RHost)
	}
}

func TestParseSession(t *testing.T) {
	log := "Jun 15 04:06:18 combo su(pam_unix)[21416]: session opened for user cyrus by (uid=0)"
	entries := Parse(log)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].MessageType != MessageSessionOpened {
		t.Errorf("expected sess_open, got %s", entries[0].MessageType)
	}
	if entries[0].Params.User != "cyrus" {
		t.Errorf("expected user cyrus, got %q", entries[0].Params.User)
	}
}

func TestParseFtpConnection(t *testing.T) {
	log := "Jun 17 07:07:00 combo ftpd[29504]: connection from 24.54.76.216 (24-54-76-216.bflony.adelphia.net) at Fri Jun 17 07:07:00 2005"
	entries := Parse(log)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Service != "ftpd" || !e.HasPID || e.PID != 29504 {
		t.Errorf("unexpected service/pid: %+v", e)
	}
	if e.MessageType != MessageFtpConnection {
		t.Errorf("expected ftp_conn, got %s", e.MessageType)
	}
	if e.Params.IP != "24.54.76.216" || e.Params.ResolvedHost != "24-54-76-216.bflony.adelphia.net" {
		t.Errorf("unexpected ftp params: %+v", e.Params)
	}
}

func TestParseMultipleLines(t *testing.T) {
	log := "Jun 14 15:16:01 combo sshd(pam_unix)[19939]: authentication failure; logname= uid=0 euid=0 tty=NODEVssh ruser= rhost=218.188.2.4\n" +
		"Jun 14 15:16:02 combo sshd(pam_unix)[19937]: check pass; user unknown\n" +
		"Jun 15 04:06:18 combo su(pam_unix)[21416]: session opened for user cyrus by (uid=0)"
	entries := Parse(log)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []MessageType{MessageAuthFailure, MessageCheckPass, MessageSessionOpened}
	for i, w := range want {
		if entries[i].MessageType != w {
			t.Errorf("entry %d: expected %s, got %s", i, w, entries[i].MessageType)
		}
	}
}

func TestParseLogrotate(t *testing.T) {
	log := "Jun 15 04:06:20 combo logrotate: ALERT exited abnormally with [1]"
	entries := Parse(log)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].MessageType != MessageLogRotate {
		t.Errorf("expected logrotate, got %s", entries[0].MessageType)
	}
	if !entries[0].Params.HasExitCode || entries[0].Params.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %+v", entries[0].Params)
	}
}

func TestParseServiceStatus(t *testing.T) {
	log := "Jun 19 04:08:57 combo cups: cupsd shutdown succeeded"
	entries := Parse(log)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].MessageType != MessageServiceStatus {
		t.Errorf("expected svc_status, got %s", entries[0].MessageType)
	}
	if entries[0].Params.Status != "shutdown" {
		t.Errorf("expected shutdown, got %q", entries[0].Params.Status)
	}
}

func TestParseSingleDigitDay(t *testing.T) {
	log := "Jul  1 00:21:28 combo sshd(pam_unix)[19630]: authentication failure; logname= uid=0 euid=0 tty=NODEVssh ruser= rhost=60.30.224.116  user=root"
	entries := Parse(log)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Month != "Jul" || entries[0].Day != 1 {
		t.Errorf("unexpected month/day: %+v", entries[0])
	}
	if entries[0].Params.User != "root" {
		t.Errorf("expected user root, got %q", entries[0].Params.User)
	}
}

func TestParseUnrecognizedLineMarksParseError(t *testing.T) {
	entries := Parse("not a syslog line at all")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].MessageType != MessageParseError {
		t.Errorf("expected parse_error, got %s", entries[0].MessageType)
	}
	if entries[0].Message != "not a syslog line at all" {
		t.Errorf("expected raw text preserved, got %q", entries[0].Message)
	}
}

func TestToTabularColumnLayout(t *testing.T) {
	log := "Jun 14 15:16:01 combo sshd(pam_unix)[19939]: authentication failure; logname= uid=0 euid=0 tty=NODEVssh ruser= rhost=218.188.2.4"
	data, err := ToTabular(log)
	if err != nil {
		t.Fatalf("ToTabular error: %v", err)
	}
	if data.RowCount != 1 || data.ColumnCount() != 10 {
		t.Fatalf("expected 1 row and 10 columns, got %d rows %d columns", data.RowCount, data.ColumnCount())
	}
	msgType, ok := data.Column("msg_type")
	if !ok || msgType.Values[0].S != string(MessageAuthFailure) {
		t.Errorf("expected msg_type auth_fail, got %+v", msgType)
	}
}

func TestToTabularEmpty(t *testing.T) {
	data, err := ToTabular("")
	if err != nil {
		t.Fatalf("ToTabular error: %v", err)
	}
	if !data.IsEmpty() {
		t.Errorf("expected empty data")
	}
}

func TestToSyslogRoundTripContainsKeyFields(t *testing.T) {
	original := "Jun 14 15:16:01 combo sshd(pam_unix)[19939]: authentication failure; logname= uid=0 euid=0 tty=NODEVssh ruser= rhost=218.188.2.4"
	data, err := ToTabular(original)
	if err != nil {
		t.Fatalf("ToTabular error: %v", err)
	}
	output := ToSyslog(data)
	for _, want := range []string{"Jun", "14", "15:16:01", "combo", "sshd(pam_unix)", "19939"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}

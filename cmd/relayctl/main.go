// Command relayctl inspects a running relay and its audit log.
//
//	relayctl rooms
//	relayctl stats
//	relayctl events -db ./data -room movie-night [-cursor KEY]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/Jeyasaravanan18/synctube-backend/observability"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

type Config struct {
	Addr    string        `envconfig:"RELAYCTL_ADDR" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"RELAYCTL_TIMEOUT" default:"5s"`
}

func main() {
	code, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		color.Error.Println(err)
	}
	os.Exit(code)
}

func run(args []string, out io.Writer) (int, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitUsage, fmt.Errorf("config error: %w", err)
	}
	if len(args) == 0 {
		return exitUsage, fmt.Errorf("usage: relayctl rooms|stats|events")
	}
	client := &http.Client{Timeout: config.Timeout}

	switch args[0] {
	case "rooms":
		var rooms []domain.RoomSnapshot
		if err := getJSON(client, config.Addr+"/debug/rooms", &rooms); err != nil {
			return exitRuntime, err
		}
		printRooms(out, rooms)
	case "stats":
		var stats observability.MonitoringStats
		if err := getJSON(client, config.Addr+"/debug/stats", &stats); err != nil {
			return exitRuntime, err
		}
		printStats(out, stats)
	case "events":
		return events(args[1:], out)
	default:
		return exitUsage, fmt.Errorf("unknown command %q", args[0])
	}
	return exitOK, nil
}

func events(args []string, out io.Writer) (int, error) {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(out)
	dbPath := fs.String("db", "", "Path to the relay badger directory")
	room := fs.String("room", "", "Room id")
	cursor := fs.String("cursor", "", "Resume after this key")
	limit := fs.Int("limit", 50, "Maximum number of events")
	if err := fs.Parse(args); err != nil {
		return exitUsage, err
	}
	if *dbPath == "" || *room == "" {
		return exitUsage, fmt.Errorf("events requires -db and -room")
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()

	repository := repositories.NewRoomEventRepository(db, logs.GetLoggerFromString("ERROR"), limit)
	var from *string
	if *cursor != "" {
		from = cursor
	}
	diskEvents, next, err := repository.GetEvents(*room, from)
	if err != nil {
		return exitRuntime, err
	}
	printEvents(out, diskEvents)
	if next != nil && len(diskEvents) == *limit {
		fmt.Fprintf(out, "\nMore events: -cursor %s\n", *next)
	}
	return exitOK, nil
}

func getJSON(client *http.Client, url string, v any) error {
	res, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("relay unreachable: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", url, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(v)
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func printRooms(out io.Writer, rooms []domain.RoomSnapshot) {
	if len(rooms) == 0 {
		fmt.Fprintln(out, color.Yellow.Sprint("No active room"))
		return
	}
	table := newTable(out, "Room", "Host", "Users", "Since")
	for _, r := range rooms {
		table.Append([]string{
			string(r.ID),
			color.Green.Sprint(r.Host),
			strings.Join(r.Users, ", "),
			r.CreatedAt.Format(time.DateTime),
		})
	}
	table.Render()
}

func printStats(out io.Writer, stats observability.MonitoringStats) {
	table := newTable(out, "Metric", "Value")
	rows := [][]string{
		{"Active connections", strconv.FormatInt(stats.ActiveConnections, 10)},
		{"Active rooms", strconv.Itoa(stats.ActiveRooms)},
		{"Joins accepted", strconv.FormatUint(stats.JoinsAccepted, 10)},
		{"Joins rejected", strconv.FormatUint(stats.JoinsRejected, 10)},
		{"Hosts reassigned", strconv.FormatUint(stats.HostsReassigned, 10)},
		{"Messages relayed", strconv.FormatUint(stats.MessagesRelayed, 10)},
		{"Bytes relayed", strconv.FormatUint(stats.BytesRelayed, 10)},
		{"Malformed messages", strconv.FormatUint(stats.MalformedMessages, 10)},
		{"RAM (bytes)", strconv.FormatUint(stats.RamBytes, 10)},
		{"CPU (%)", strconv.FormatFloat(stats.CpuPercent, 'f', 1, 64)},
	}
	table.AppendBulk(rows)
	table.Render()
}

func printEvents(out io.Writer, events []repositories.DiskEvent) {
	if len(events) == 0 {
		fmt.Fprintln(out, color.Yellow.Sprint("No event recorded"))
		return
	}
	table := newTable(out, "Time", "Kind", "Nickname", "Users", "Detail")
	for _, e := range events {
		table.Append([]string{
			e.At.Local().Format(time.DateTime),
			kindColor(e.Kind).Sprint(e.Kind),
			e.Nickname,
			strings.Join(e.Users, ", "),
			e.Detail,
		})
	}
	table.Render()
}

func kindColor(kind string) color.Color {
	switch event.Kind(kind) {
	case event.JoinRejectedKind:
		return color.Red
	case event.ParticipantJoinedKind, event.RoomCreatedKind:
		return color.Green
	case event.HostAssignedKind:
		return color.Cyan
	default:
		return color.Normal
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"khietan/internal/roomevents"
	"khietan/pkg/client"
	"khietan/pkg/kafka"
	kafka_config "khietan/pkg/kafka/config"
	"khietan/pkg/logger"
	"khietan/pkg/mirror"
	"khietan/pkg/model"
	"khietan/pkg/roomcache"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

const (
	sourceRemote = "remote"
	sourceMirror = "mirror"

	targetAdmin  = "admin"
	targetLegacy = "legacy"
)

func newFlagSet(env *environment, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("roomctl "+name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	return fs
}

func runList(ctx context.Context, env *environment, args []string) error {
	if err := newFlagSet(env, "list").Parse(args); err != nil {
		return err
	}

	rooms, err := env.admin.ListRooms(ctx)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Fprintln(env.stdout, "No rooms found.")
		return nil
	}

	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCAPACITY\tSTATUS\tBOOKED UNTIL\tBOOKINGS")
	for _, room := range rooms {
		fmt.Fprintf(tw, "%d\t%s\t%.0f\t%d\t%s\t%s\t%d\n",
			room.RoomID, room.Name, room.Price, room.Capacity, room.Status, dash(room.BookedUntil), len(room.Bookings))
	}
	return tw.Flush()
}

// roomFlags registers the editable room fields and reports which of them were set.
type roomFlags struct {
	fs          *flag.FlagSet
	name        *string
	price       *float64
	capacity    *int
	description *string
	amenities   *string
	image       *string
	status      *string
	bookedUntil *string
}

func newRoomFlags(fs *flag.FlagSet) *roomFlags {
	return &roomFlags{
		fs:          fs,
		name:        fs.String("name", "", "room name"),
		price:       fs.Float64("price", 0, "price per night"),
		capacity:    fs.Int("capacity", 0, "maximum number of guests"),
		description: fs.String("description", "", "description"),
		amenities:   fs.String("amenities", "", "comma-separated amenities"),
		image:       fs.String("image", "", "image URL"),
		status:      fs.String("status", "", "available, booked or maintenance"),
		bookedUntil: fs.String("booked-until", "", "date the room is booked until"),
	}
}

// input carries only the flags given on the command line.
func (f *roomFlags) input() model.RoomInput {
	var in model.RoomInput
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			in.Name = f.name
		case "price":
			in.Price = model.NewNumber(*f.price)
		case "capacity":
			in.Capacity = model.NewNumber(float64(*f.capacity))
		case "description":
			in.Description = f.description
		case "amenities":
			amenities := splitList(*f.amenities)
			in.Amenities = &amenities
		case "image":
			in.ImageURL = f.image
		case "status":
			in.Status = f.status
		case "booked-until":
			in.BookedUntil = f.bookedUntil
		}
	})
	return in
}

func runAdd(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "add")
	fields := newRoomFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := env.admin.CreateRoom(ctx, fields.input())
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "Room %d created.\n", result.RoomID)
	return nil
}

func runUpdate(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "update")
	id := fs.Int("id", 0, "room id (required)")
	fields := newRoomFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id < 1 {
		return errors.New("-id is required")
	}

	in := fields.input()
	if in.ToPatch().IsEmpty() {
		return errors.New("nothing to update")
	}

	result, err := env.admin.UpdateRoom(ctx, *id, in)
	if err != nil {
		return err
	}
	if result.Room == nil {
		fmt.Fprintf(env.stdout, "Room %d updated.\n", *id)
		return nil
	}
	fmt.Fprintf(env.stdout, "Room %d updated (status: %s).\n", result.Room.RoomID, result.Room.Status)
	return nil
}

func runDelete(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "delete")
	id := fs.Int("id", 0, "room id (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id < 1 {
		return errors.New("-id is required")
	}

	if !*yes && !confirm(env.stdin, env.stdout, fmt.Sprintf("Delete room %d?", *id)) {
		fmt.Fprintln(env.stdout, "Aborted.")
		return nil
	}

	if _, err := env.admin.DeleteRoom(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "Room %d deleted.\n", *id)
	return nil
}

func runStats(ctx context.Context, env *environment, args []string) error {
	if err := newFlagSet(env, "stats").Parse(args); err != nil {
		return err
	}

	stats, err := env.admin.Stats(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%d\n", stats.Total)
	fmt.Fprintf(tw, "Available\t%d\n", stats.Available)
	fmt.Fprintf(tw, "Booked\t%d\n", stats.Booked)
	fmt.Fprintf(tw, "Maintenance\t%d\n", stats.Maintenance)
	return tw.Flush()
}

func runSync(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "sync")
	file := fs.String("file", "", "YAML or JSON list of rooms (required)")
	target := fs.String("target", targetAdmin, "admin or legacy")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}

	rooms, err := readSeedFile(*file)
	if err != nil {
		return err
	}

	var result *client.SyncResult
	switch *target {
	case targetAdmin:
		result, err = env.admin.SyncRooms(ctx, rooms)
	case targetLegacy:
		result, err = client.NewLegacyClient(env.legacyURL).SyncRooms(ctx, rooms)
	default:
		return fmt.Errorf("unknown target %q", *target)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(env.stdout, "Synchronized %d of %d rooms.\n", result.Synced, result.Total)
	return nil
}

// readSeedFile parses a list of rooms. JSON is valid YAML, so both formats are accepted.
func readSeedFile(path string) ([]model.RoomInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rooms []model.RoomInput
	if err := yaml.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%s contains no rooms", path)
	}
	return rooms, nil
}

func runWatch(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet(env, "watch")
	interval := fs.Duration("interval", roomcache.DefaultInterval, "polling interval")
	source := fs.String("source", sourceRemote, "remote (homepage API) or mirror (Redis snapshot)")
	redisAddr := fs.String("redis", envOr("REDIS_ADDR", "localhost:6379"), "Redis address for -source mirror")
	useKafka := fs.Bool("kafka", false, "also refresh on room events from Kafka")
	topic := fs.String("topic", envOr("KAFKA_ROOM_EVENTS_TOPIC", "room-events"), "room events topic for -kafka")
	once := fs.Bool("once", false, "refresh once, print and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := logger.WARN
	if env.verbose {
		level = logger.DEBUG
	}
	log := logger.New(logger.Config{Level: level, Format: logger.TEXT, Output: env.stderr, Service: "roomctl"})

	var src roomcache.Source
	triggers := []roomcache.Trigger{}

	switch *source {
	case sourceRemote:
		src = roomcache.NewRemoteSource(client.NewHomepageClient(env.homepageURL))
	case sourceMirror:
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rdb.Close()
		store := mirror.New(rdb)
		src = roomcache.NewMirrorSource(store)
		if !*once {
			trigger, err := roomcache.NewMirrorTrigger(ctx, store, log)
			if err != nil {
				return err
			}
			triggers = append(triggers, trigger)
		}
	default:
		return fmt.Errorf("unknown source %q", *source)
	}

	state := roomcache.New(src,
		roomcache.WithLogger(log),
		roomcache.WithOnChange(func(rooms []model.PublicRoom) { printAvailable(env.stdout, rooms) }),
	)
	if *once {
		return state.Refresh(ctx)
	}

	if *useKafka {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			return err
		}
		trigger, err := roomcache.StartKafkaTrigger(kafkaCfg, *topic, acceptRoomEvent, log)
		if err != nil {
			return err
		}
		triggers = append(triggers, trigger)
	}
	triggers = append(triggers, roomcache.NewIntervalTrigger(*interval))

	err := state.Run(ctx, triggers...)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func acceptRoomEvent(msg kafka.Message) error {
	_, err := roomevents.DecodeMessage(msg)
	return err
}

func printAvailable(w io.Writer, rooms []model.PublicRoom) {
	available := 0
	for _, room := range rooms {
		if room.Available {
			available++
		}
	}
	fmt.Fprintf(w, "[%s] %d of %d rooms available\n", time.Now().Format(time.TimeOnly), available, len(rooms))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, room := range rooms {
		mark := " "
		if room.Available {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.0f\t%d\t%s\n", mark, room.RoomID, room.Name, room.Price, room.Capacity, room.Status)
	}
	_ = tw.Flush()
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package redisstream

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// fakeStreams is an in-memory streamClient. Entry ids are synthetic and
// increase from clock.
type fakeStreams struct {
	streams map[string][]redis.XMessage
	acked   []string
	pending []redis.XMessage
	clock   int64
	seq     int

	groupErr error
	addErr   map[string]error
}

func newFakeStreams() *fakeStreams {
	return &fakeStreams{streams: map[string][]redis.XMessage{}, addErr: map[string]error{}}
}

func (f *fakeStreams) push(stream, entryID string, values map[string]any) {
	f.streams[stream] = append(f.streams[stream], redis.XMessage{ID: entryID, Values: values})
}

func (f *fakeStreams) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	if err := f.addErr[a.Stream]; err != nil {
		return redis.NewStringResult("", err)
	}

	values := map[string]any{}
	for k, v := range a.Values.(map[string]any) {
		values[k] = v
	}
	f.seq++
	entryID := fmt.Sprintf("%d-%d", f.clock, f.seq)
	f.push(a.Stream, entryID, values)
	return redis.NewStringResult(entryID, nil)
}

func (f *fakeStreams) XGroupCreateMkStream(_ context.Context, _, _, _ string) *redis.StatusCmd {
	return redis.NewStatusResult("OK", f.groupErr)
}

func (f *fakeStreams) XReadGroup(_ context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	stream := a.Streams[0]

	// "0" replays this consumer's unacknowledged entries and never blocks.
	if a.Streams[1] == "0" {
		var batch []redis.XMessage
		for _, m := range f.unacked() {
			if int64(len(batch)) == a.Count {
				break
			}
			batch = append(batch, m)
		}
		return redis.NewXStreamSliceCmdResult([]redis.XStream{{Stream: stream, Messages: batch}}, nil)
	}

	msgs := f.streams[stream]
	if len(msgs) == 0 {
		return redis.NewXStreamSliceCmdResult(nil, redis.Nil)
	}

	n := int(a.Count)
	if n > len(msgs) {
		n = len(msgs)
	}
	batch := msgs[:n]
	f.streams[stream] = msgs[n:]
	f.pending = append(f.pending, batch...)

	return redis.NewXStreamSliceCmdResult([]redis.XStream{{Stream: stream, Messages: batch}}, nil)
}

func (f *fakeStreams) unacked() []redis.XMessage {
	var out []redis.XMessage
	for _, m := range f.pending {
		if !slices.Contains(f.acked, m.ID) {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeStreams) XAck(_ context.Context, _, _ string, ids ...string) *redis.IntCmd {
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

func (f *fakeStreams) XRangeN(_ context.Context, stream, start, _ string, count int64) *redis.XMessageSliceCmd {
	var out []redis.XMessage
	for _, m := range f.streams[stream] {
		if int64(len(out)) == count {
			break
		}
		if after, ok := strings.CutPrefix(start, "("); ok && compareIDs(m.ID, after) <= 0 {
			continue
		}
		out = append(out, m)
	}
	return redis.NewXMessageSliceCmdResult(out, nil)
}

// compareIDs orders "<ms>-<seq>" entry ids.
func compareIDs(a, b string) int {
	parse := func(s string) (int64, int64) {
		ms, seq, _ := strings.Cut(s, "-")
		m, _ := strconv.ParseInt(ms, 10, 64)
		n, _ := strconv.ParseInt(seq, 10, 64)
		return m, n
	}
	am, as := parse(a)
	bm, bs := parse(b)
	if c := cmp.Compare(am, bm); c != 0 {
		return c
	}
	return cmp.Compare(as, bs)
}

func (f *fakeStreams) XDel(_ context.Context, stream string, ids ...string) *redis.IntCmd {
	var kept []redis.XMessage
	deleted := 0
	for _, m := range f.streams[stream] {
		drop := false
		for _, id := range ids {
			if m.ID == id {
				drop = true
			}
		}
		if drop {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.streams[stream] = kept
	return redis.NewIntResult(int64(deleted), nil)
}

var errBroker = errors.New("broker unavailable")

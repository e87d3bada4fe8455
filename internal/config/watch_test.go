package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/scholar/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

type reload struct {
	cfg *config.Config
	err error
}

func TestWatch(t *testing.T) {
	convey.Convey("Given a watched config file", t, func() {
		clearConfigEnvVars()
		path := createTempConfigFile("full_threshold: 85\n")
		defer func() { _ = os.Remove(path) }()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reloads := make(chan reload, 64)
		err := config.Watch(ctx, path, func(c *config.Config, err error) {
			select {
			case reloads <- reload{cfg: c, err: err}:
			default:
			}
		})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the file is rewritten with a valid config", func() {
			convey.So(os.WriteFile(path, []byte("full_threshold: 90\n"), 0o600), convey.ShouldBeNil)

			convey.Convey("Then the new config is delivered", func() {
				r := until(reloads, func(r reload) bool { return r.cfg != nil && r.cfg.FullThreshold == 90 })
				convey.So(r.err, convey.ShouldBeNil)
				convey.So(r.cfg.FullThreshold, convey.ShouldEqual, 90.0)
			})
		})

		convey.Convey("When the file is rewritten with an invalid config", func() {
			convey.So(os.WriteFile(path, []byte("full_threshold: 50\n"), 0o600), convey.ShouldBeNil)

			convey.Convey("Then the reload reports the validation error", func() {
				r := until(reloads, func(r reload) bool { return r.err != nil })
				convey.So(r.cfg, convey.ShouldBeNil)
				convey.So(errors.Is(r.err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given no file", t, func() {
		err := config.Watch(context.Background(), "", func(*config.Config, error) {})
		convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
	})
}

// until skips intermediate reloads (a rewrite can fire more than one event)
// and returns the first that satisfies ok.
func until(ch <-chan reload, ok func(reload) bool) reload {
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-ch:
			if ok(r) {
				return r
			}
		case <-timeout:
			return reload{err: errors.New("timed out waiting for reload")}
		}
	}
}

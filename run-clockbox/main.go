// Command run-clockbox runs the clock/chronograph core against real
// hardware: four GPIO buttons in, the LED matrix and/or the decoder board
// out, with a metrics and display-preview server on the side.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrockway/periphflag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/trace"
	"periph.io/x/extra/hostextra"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"

	"github.com/clockbox/clockbox"
	"github.com/clockbox/clockbox/decoder"
	"github.com/clockbox/clockbox/eventlog"
	"github.com/clockbox/clockbox/runner"
	"github.com/clockbox/clockbox/screen"
)

var (
	bind       = flag.String("bind", ":8080", "address to bind for debug/metrics server")
	decoderDev = flag.String("decoder", "", "spidev device of the display decoder board; empty for none")
	dbfile     = flag.String("db", "", "sqlite file to log button/mode events to; empty for none")
	tickRate   = flag.Int("tick-rate", 48880, "core ticks per second; scaled down from the 10MHz silicon")

	powerPin = flag.String("power-pin", "GPIO66", "gpio pin of the power button")
	modePin  = flag.String("mode-pin", "GPIO67", "gpio pin of the mode button")
	startPin = flag.String("start-pin", "GPIO68", "gpio pin of the start button")
	stopPin  = flag.String("stop-pin", "GPIO69", "gpio pin of the stop button")

	spiDev string

	buttonEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockbox_button_events_total",
		Help: "count of conditioned button pulses, by button and kind",
	}, []string{"button", "kind"})
)

type gpioButtons struct {
	power, mode, start, stop gpio.PinIn
}

func openButton(name string) (gpio.PinIn, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no such pin %q", name)
	}
	if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as input: %w", name, err)
	}
	return p, nil
}

func (b *gpioButtons) Levels() clockbox.Inputs {
	return clockbox.Inputs{
		Power: b.power.Read() == gpio.High,
		Mode:  b.mode.Read() == gpio.High,
		Start: b.start.Read() == gpio.High,
		Stop:  b.stop.Read() == gpio.High,
	}
}

type multiSink []runner.Sink

func (m multiSink) Drive(out clockbox.Outputs) error {
	for _, s := range m {
		if err := s.Drive(out); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if _, err := hostextra.Init(); err != nil {
		log.Fatalf("init periph.io: %v", err)
	}
	periphflag.SPIDevVar(&spiDev, "spi", "", "spi bus that the LED matrix is on")
	flag.Parse()

	timing := clockbox.Timing{TickRate: *tickRate}

	var spiPort spi.Port
	if spiDev != "" {
		p, err := spireg.Open(spiDev)
		if err != nil {
			log.Fatalf("open spi port %q: %v", spiDev, err)
		}
		spiPort = p
	}

	// Preview refreshes ten times a second; the eye on the real matrix
	// gets the full scan rate.
	scr, err := screen.New(spiPort, timing.TickRate/10)
	if err != nil {
		log.Fatalf("init screen: %v", err)
	}

	sinks := multiSink{scr}
	var dec *decoder.Decoder
	if *decoderDev != "" {
		dec, err = decoder.Open(*decoderDev)
		if err != nil {
			log.Fatalf("open decoder: %v", err)
		}
		sinks = append(sinks, dec)
	}

	var db *eventlog.DB
	if *dbfile != "" {
		db, err = eventlog.Open(*dbfile)
		if err != nil {
			log.Fatalf("open event log: %v", err)
		}
	}

	buttons := &gpioButtons{}
	for _, b := range []struct {
		name string
		flag *string
		pin  *gpio.PinIn
	}{
		{name: "power", flag: powerPin, pin: &buttons.power},
		{name: "mode", flag: modePin, pin: &buttons.mode},
		{name: "start", flag: startPin, pin: &buttons.start},
		{name: "stop", flag: stopPin, pin: &buttons.stop},
	} {
		p, err := openButton(*b.flag)
		if err != nil {
			log.Fatalf("open %s button: %v", b.name, err)
		}
		*b.pin = p
	}

	ctx, cancel := context.WithCancel(context.Background())

	box := clockbox.New(timing)
	events := trace.NewEventLog("clockbox", "core")
	defer events.Finish()

	lastMode := box.ModeNow()
	scr.SetCaption(lastMode.String())
	observe := func(ev clockbox.Events) {
		for _, pulse := range []struct {
			fired  bool
			button string
			kind   string
		}{
			{fired: ev.PowerPressed, button: "power", kind: "pressed"},
			{fired: ev.ModePressed, button: "mode", kind: "pressed"},
			{fired: ev.ModeHeld, button: "mode", kind: "held"},
			{fired: ev.StartPressed, button: "start", kind: "pressed"},
			{fired: ev.StopPressed, button: "stop", kind: "pressed"},
			{fired: ev.StopHeld, button: "stop", kind: "held"},
		} {
			if !pulse.fired {
				continue
			}
			events.Printf("%s %s", pulse.button, pulse.kind)
			buttonEvents.WithLabelValues(pulse.button, pulse.kind).Inc()
			if db != nil {
				if err := db.RecordButton(pulse.button, pulse.kind == "held"); err != nil {
					log.Printf("error logging button event: %v", err)
				}
			}
		}
		if ev.Mode != lastMode {
			lastMode = ev.Mode
			events.Printf("mode -> %v", ev.Mode)
			scr.SetCaption(ev.Mode.String())
			if db != nil {
				if err := db.RecordMode(ev.Mode.String()); err != nil {
					log.Printf("error logging mode change: %v", err)
				}
			}
		}
	}

	http.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/display.png", http.StatusFound)
	})
	http.Handle("/display.png", scr)
	http.Handle("/metrics", promhttp.Handler())

	httpDoneCh := make(chan error)
	httpServer := http.Server{Addr: *bind}
	go func() {
		log.Printf("http server listening on %s", httpServer.Addr)
		err := httpServer.ListenAndServe()
		select {
		case httpDoneCh <- err:
		case <-ctx.Done():
		}
		close(httpDoneCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	r := &runner.Runner{
		Box:      box,
		Timing:   timing,
		Buttons:  buttons,
		Sink:     sinks,
		Observer: observe,
	}
	loopDoneCh := make(chan error)
	go func() {
		err := r.Run(ctx)
		select {
		case loopDoneCh <- err:
		case <-ctx.Done():
		}
		close(loopDoneCh)
	}()

	httpAlive := true
	select {
	case err := <-httpDoneCh:
		log.Printf("http server died: %v", err)
		httpAlive = false
	case err := <-loopDoneCh:
		log.Printf("clockbox loop died: %v", err)
	case <-sigCh:
		log.Printf("interrupt")
	}
	signal.Stop(sigCh)
	cancel()
	if dec != nil {
		if err := dec.Blank(); err != nil {
			log.Printf("blank decoder: %v", err)
		}
		dec.Close()
	}
	if httpAlive {
		tctx, c := context.WithTimeout(context.Background(), time.Second)
		httpServer.Shutdown(tctx)
		c()
	}
	os.Exit(1)
}

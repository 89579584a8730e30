package main

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"git.lost.host/meutraa/eots/internal/clock"
	"git.lost.host/meutraa/eots/internal/config"
	"git.lost.host/meutraa/eots/internal/game"
	"git.lost.host/meutraa/eots/internal/input"
	"git.lost.host/meutraa/eots/internal/parser"
	"git.lost.host/meutraa/eots/internal/render"
	"git.lost.host/meutraa/eots/internal/score"
	"git.lost.host/meutraa/eots/internal/session"
	"git.lost.host/meutraa/eots/internal/theme"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func run() error {
	var psr parser.DefaultParser

	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard:", err)
		}
	}()

	var audioFile, chartFile string
	if err := filepath.Walk(*config.Directory, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".mp3", ".ogg":
			audioFile = p
		case ".sm":
			chartFile = p
		}
		return nil
	}); nil != err {
		return fmt.Errorf("unable to walk song directory: %w", err)
	}
	if audioFile == "" || chartFile == "" {
		return errors.New("unable to find .sm and .mp3/.ogg file in given directory")
	}

	charts, err := psr.Parse(chartFile)
	if nil != err {
		return err
	}
	if len(charts) == 0 {
		return errors.New("no dance-single charts in file")
	}

	log.Printf("Opening %v (%v)\n", audioFile, chartFile)
	data, err := ioutil.ReadFile(audioFile)
	if nil != err {
		return err
	}

	ck := clock.New(*config.Rate)
	length, err := ck.Load(context.Background(), data)
	if nil != err {
		return err
	}

	// Loop a slice of the song while the difficulty menu is up
	preview := 10 * time.Second
	if preview > length/2 {
		preview = length / 2
	}
	if err := ck.Play(length/3, preview, true, *config.Volume); nil != err {
		log.Println("unable to play preview:", err)
	}

	// Difficulty selection
	for i, c := range charts {
		fmt.Printf("%2v) %3v  %5v  %v\n", i, c.Difficulty.Rating, c.NoteCount(), c.Difficulty.Name)
	}
	key := <-keyChannel
	ck.Stop()
	index, err := strconv.ParseInt(string(key.Rune), 10, 64)
	if nil != err || index > int64(len(charts)-1) {
		return errors.New("not a difficulty index")
	}
	chart := charts[index]
	applyOffset(chart)

	sources := []input.Source{}
	pulse := &pulseSource{}
	if *config.Keyboard != "" {
		src, err := input.NewEvdevSource(*config.Keyboard, config.KeyCodes())
		if nil != err {
			return fmt.Errorf("unable to open keyboard device: %w", err)
		}
		defer src.Close()
		sources = append(sources, src)
	} else {
		// Terminal key events have no releases, so holds will drop.
		sources = append(sources, pulse)
	}
	if *config.Joystick != "" {
		src, err := input.NewJoystickSource(*config.Joystick, defaultButtons, defaultAxes)
		if nil != err {
			return fmt.Errorf("unable to open joystick device: %w", err)
		}
		defer src.Close()
		sources = append(sources, src)
	}

	store, err := score.NewSQLStore(*config.ScoreDB)
	if nil != err {
		return err
	}
	defer store.Close()

	p := &Program{
		Renderer:   &render.Terminal{},
		Theme:      &theme.DefaultTheme{},
		Store:      store,
		keyChannel: keyChannel,
		pulse:      pulse,
		chart:      chart,
	}
	geo := render.Geometry{
		Width:       columns,
		Height:      rows,
		BarOffset:   float64(*config.BarRow),
		ScrollSpeed: -*config.ScrollSpeed, // notes fall toward the receptors
		Visible:     *config.Visible,
	}
	p.Session = session.New(ck, input.NewPoller(sources...), geo, session.Hooks{
		OnJudgement: p.onJudgement,
		OnResults:   p.onResults,
	})
	p.Session.SetVolume(*config.Volume)
	p.Resize(columns, rows)

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		if err := p.Renderer.Deinit(); nil != err {
			log.Println("unable to restore terminal:", err)
		}
	}()

	return p.Run()
}

// applyOffset shifts every note by the global audio offset.
func applyOffset(c *game.Chart) {
	if *config.Offset == 0 {
		return
	}
	for i := range c.Notes {
		c.Notes[i].Time += *config.Offset
		if c.Notes[i].Kind == game.Hold {
			c.Notes[i].TimeEnd += *config.Offset
		}
	}
}

var (
	// A/B/X/Y and the d-pad hat, the usual linux js layout.
	defaultButtons = map[uint8]int{0: 0, 1: 1, 2: 2, 3: 3}
	defaultAxes    = map[uint8][2]int{6: {0, 3}, 7: {2, 1}}
)

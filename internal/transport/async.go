package transport

import "sync"

// AsyncMedia runs the commands of a slow Media on one worker goroutine so
// callers never wait for it. Only the latest command not yet started is
// kept; an older pending one is replaced. The position is tracked locally
// so consecutive seeks accumulate before the player catches up.
type AsyncMedia struct {
	media   Media
	onError func(command string, err error)

	mu       sync.Mutex
	position float64
	pending  *mediaCommand

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

type mediaCommand struct {
	name string
	run  func() error
}

// NewAsyncMedia starts a worker in front of media. onError, which may be
// nil, receives every failed command from the worker goroutine.
func NewAsyncMedia(media Media, onError func(command string, err error)) *AsyncMedia {
	a := &AsyncMedia{
		media:    media,
		onError:  onError,
		position: media.Position(),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go a.work()
	return a
}

// Play implements Media. It returns once the command is queued.
func (a *AsyncMedia) Play() error {
	a.enqueue("play", a.media.Play)
	return nil
}

// Pause implements Media.
func (a *AsyncMedia) Pause() error {
	a.enqueue("pause", a.media.Pause)
	return nil
}

// Position implements Media.
func (a *AsyncMedia) Position() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// SetPosition implements Media.
func (a *AsyncMedia) SetPosition(sec float64) error {
	if sec < 0 {
		sec = 0
	}
	a.mu.Lock()
	a.position = sec
	a.pending = &mediaCommand{name: "seek", run: func() error { return a.media.SetPosition(sec) }}
	a.mu.Unlock()

	a.signal()
	return nil
}

// Close stops the worker after the command in progress. Pending commands
// are dropped.
func (a *AsyncMedia) Close() {
	a.once.Do(func() { close(a.stop) })
	<-a.done
}

func (a *AsyncMedia) enqueue(name string, run func() error) {
	a.mu.Lock()
	a.pending = &mediaCommand{name: name, run: run}
	a.mu.Unlock()

	a.signal()
}

func (a *AsyncMedia) signal() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *AsyncMedia) work() {
	defer close(a.done)

	for {
		select {
		case <-a.stop:
			return
		case <-a.wake:
		}

		a.mu.Lock()
		cmd := a.pending
		a.pending = nil
		a.mu.Unlock()
		if cmd == nil {
			continue
		}

		err := cmd.run()
		if err != nil {
			if a.onError != nil {
				a.onError(cmd.name, err)
			}
			continue
		}

		// Adopt the player's position unless a newer command is waiting.
		a.mu.Lock()
		if a.pending == nil {
			a.position = a.media.Position()
		}
		a.mu.Unlock()
	}
}

var _ Media = (*AsyncMedia)(nil)

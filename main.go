package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"

	"PixelChat/internal/artifact"
	"PixelChat/internal/canvas"
	"PixelChat/internal/chat"
	"PixelChat/internal/config"
	"PixelChat/internal/export"
	"PixelChat/internal/importer"
	"PixelChat/internal/net"
	"PixelChat/internal/session"
	"PixelChat/internal/ui"
)

// room ties the editing session, the artifact recovery protocol, and
// the chat feed to a transport. send is broadcast when hosting and a
// single websocket when joining.
type room struct {
	user     string
	session  *session.Session
	handles  *artifact.HandleTable
	protocol *artifact.Protocol
	pane     *ui.ChatPane
	started  time.Time

	send func(chat.Message) error
}

func main() {
	host := flag.Bool("host", false, "host a room on the local network")
	join := flag.String("join", "", "room address to join (host:port, or \"auto\" to discover)")
	name := flag.String("name", "", "display name shown to peers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	user := *name
	if user == "" {
		if h, err := os.Hostname(); err == nil {
			user = h
		} else {
			user = "artist"
		}
	}

	handles := artifact.NewHandleTable()
	sess, err := session.New(user, cfg.GridWidth, cfg.GridHeight, handles)
	if err != nil {
		log.Fatalf("[main] session: %v", err)
	}
	defer sess.Close()

	r := &room{
		user:     user,
		session:  sess,
		handles:  handles,
		protocol: artifact.NewProtocol(artifact.NewEncoder(handles), handles),
		pane:     ui.NewChatPane(),
		started:  time.Now(),
	}

	shareLink := ""
	switch {
	case *join != "":
		addr := *join
		if addr == "auto" {
			addr, err = discover()
			if err != nil {
				log.Fatalf("[main] discover: %v", err)
			}
		}
		client, err := net.Dial(addr)
		if err != nil {
			log.Fatalf("[main] join %s: %v", addr, err)
		}
		defer client.Close()
		client.OnMessage = r.onRemoteMessage
		go client.Listen()
		r.send = client.Send
		log.Printf("[main] joined room at %s as %s", addr, user)

	case *host:
		hub := net.NewHub()
		hub.OnMessage = r.onRemoteMessage
		go func() {
			if err := hub.ListenAndServe(cfg.Port); err != nil {
				log.Fatalf("[main] serve: %v", err)
			}
		}()
		srv, err := net.Advertise(cfg.Port)
		if err != nil {
			log.Printf("[main] mdns advertise failed, share the address manually: %v", err)
		} else {
			defer srv.Shutdown()
		}
		r.send = func(msg chat.Message) error {
			hub.Broadcast(msg, nil)
			return nil
		}
		shareLink = fmt.Sprintf("%s:%d", net.OutgoingIP(), cfg.Port)
		log.Printf("[main] hosting room at %s as %s", shareLink, user)

	default:
		// Offline: draw, import, and export without peers.
		r.send = func(chat.Message) error { return nil }
		log.Printf("[main] no -host or -join, running solo as %s", user)
	}

	editor := ui.NewEditorWidget(sess)
	r.pane.OnSendText = func(text string) {
		msg := chat.NewTextMessage(r.user, text)
		r.pane.AppendText("me", text)
		if err := r.send(msg); err != nil {
			log.Printf("[main] send text: %v", err)
		}
	}

	ui.RunApp(editor, r.pane, shareLink, ui.Actions{
		ImportImage: func(data []byte) error {
			return sess.ImportImage(data, importer.Options{
				MaxColors: cfg.MaxColors,
				Mode:      importer.ModeFit,
				Dither:    cfg.Dither,
			})
		},
		SaveDocument: r.saveDocument,
		ExportPDF: func(path string) error {
			return export.ExportPDF(path, sess.Grid(), sess.Palette(), "PixelChat drawing")
		},
		SendDrawing: r.sendDrawing,
	})
}

// discover waits briefly for a room advertised on the local network.
func discover() (string, error) {
	found := make(chan string, 1)
	err := net.Browse(func(addr string) {
		select {
		case found <- addr:
		default:
		}
	})
	if err != nil {
		return "", err
	}
	select {
	case addr := <-found:
		return addr, nil
	case <-time.After(3 * time.Second):
		return "", fmt.Errorf("no rooms found on the local network")
	}
}

func (r *room) saveDocument(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	defer f.Close()
	return export.SaveDocument(f, export.NewDocument(r.session.Grid(), r.session.Palette(), "PixelChat drawing", ""))
}

// sendDrawing encodes the current canvas and ships it to the room. If
// encoding fails the drawing still goes out as a degraded text message
// so the conversation keeps its record.
func (r *room) sendDrawing(title string) error {
	duration := int(time.Since(r.started).Seconds())
	a, err := r.session.EncodeArtifact(title, duration)
	if err != nil {
		log.Printf("[main] encode failed, sending fallback text: %v", err)
		doc := export.NewDocument(r.session.Grid(), r.session.Palette(), title, "")
		text, ferr := export.FallbackText(doc)
		if ferr != nil {
			return fmt.Errorf("send drawing: %w", err)
		}
		r.pane.AppendText("me", text)
		return r.send(chat.NewTextMessage(r.user, text))
	}

	msg := chat.NewImageMessage(r.user, a)
	if img, rerr := r.renderArtifact(a); rerr == nil {
		r.pane.AppendImage("me", a.Title, img)
	}
	if err := r.send(msg); err != nil {
		return fmt.Errorf("send drawing: %w", err)
	}
	// The message owns the artifact now; its handles stay live in the
	// table but the session no longer tears them down.
	r.session.Release(a)
	return nil
}

// onRemoteMessage runs on a transport goroutine; display work is
// marshalled onto the UI thread.
func (r *room) onRemoteMessage(msg chat.Message) {
	fyne.Do(func() {
		switch msg.Type {
		case chat.TypeText:
			r.pane.AppendText(msg.Sender, msg.Text)
		case chat.TypeImage:
			r.showDrawing(msg)
		default:
			log.Printf("[main] unknown message type %q from %s", msg.Type, msg.Sender)
		}
	})
}

// showDrawing resolves an image message to pixels. Handles minted by
// the sender are dead here, so first render normally fails and the
// recovery protocol rebuilds local handles from the payload.
func (r *room) showDrawing(msg chat.Message) {
	a := msg.Image
	if a == nil {
		log.Printf("[main] image message %s without artifact", msg.ID)
		return
	}
	if r.protocol.ClassifyOnLoad(msg.ID, a) == artifact.StatusUnrecoverable {
		r.pane.AppendUnavailable(msg.Sender, a.Title)
		return
	}

	img, err := r.renderArtifact(a)
	if err != nil {
		status := r.protocol.OnRenderFailure(msg.ID, a)
		log.Printf("[main] render %s failed (%v), recovery: %s", msg.ID, err, status)
		if status == artifact.StatusRecovered {
			img, err = r.renderArtifact(a)
		}
	}
	if err != nil || img == nil {
		r.pane.AppendUnavailable(msg.Sender, a.Title)
		return
	}
	r.pane.AppendImage(msg.Sender, a.Title, img)
}

func (r *room) renderArtifact(a *artifact.Artifact) (image.Image, error) {
	data, ok := r.handles.Get(a.PrimaryHandle)
	if !ok {
		return nil, fmt.Errorf("primary handle %q is not live", a.PrimaryHandle)
	}
	g, p, err := artifact.DecodePNG(data)
	if err != nil {
		return nil, err
	}
	return canvas.RenderUnscaled(g, p), nil
}

package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	cfg "github.com/automoto/p2pong/config"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ConnectOptions is what the connect screen collects.
type ConnectOptions struct {
	Role            cfg.Role
	PeerAddress     string
	Port            uint
	Player          int
	InputDelay      int
	ResolutionIndex int
}

type ConnectUI struct {
	UI *ebitenui.UI

	OnStart func(ConnectOptions)
	OnQuit  func()

	opts ConnectOptions

	roleButton   *widget.Button
	playerButton *widget.Button
	delayButton  *widget.Button
	resButton    *widget.Button
	addressInput *widget.TextInput
	portInput    *widget.TextInput
	statusLabel  *widget.Label
	startBtn     *widget.Button

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

func NewConnectUI(initial ConnectOptions, onStart func(ConnectOptions), onQuit func()) *ConnectUI {
	ui := &ConnectUI{
		OnStart: onStart,
		OnQuit:  onQuit,
		opts:    initial,
	}
	ui.loadFonts()
	ui.buildUI()
	ui.UpdateUI()
	return ui
}

func (ui *ConnectUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load UI font: %v", err)
	}

	ui.titleFace = &text.GoTextFace{Source: fontSource, Size: 18}
	ui.normalFace = &text.GoTextFace{Source: fontSource, Size: 12}
	ui.smallFace = &text.GoTextFace{Source: fontSource, Size: 10}
}

func (ui *ConnectUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(12)),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	titleLabel := widget.NewLabel(
		widget.LabelOpts.Text("P2PONG", &ui.titleFace, &widget.LabelColor{
			Idle: color.RGBA{255, 255, 255, 255},
		}),
	)
	contentContainer.AddChild(titleLabel)

	contentContainer.AddChild(ui.buildOptionsPanel())

	ui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &ui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{255, 200, 100, 255},
		}),
	)
	contentContainer.AddChild(ui.statusLabel)

	contentContainer.AddChild(ui.buildButtons())

	rootContainer.AddChild(contentContainer)

	ui.UI = &ebitenui.UI{Container: rootContainer}
}

func (ui *ConnectUI) buildOptionsPanel() *widget.Container {
	padding := widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{30, 30, 45, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)

	ui.roleButton = ui.cycleButton(func() { ui.opts.Role = nextRole(ui.opts.Role) })
	panel.AddChild(ui.labeledRow("Mode:      ", ui.roleButton))

	ui.playerButton = ui.cycleButton(func() { ui.opts.Player = 1 - ui.opts.Player })
	panel.AddChild(ui.labeledRow("Paddle:    ", ui.playerButton))

	ui.delayButton = ui.cycleButton(func() { ui.opts.InputDelay = nextDelay(ui.opts.InputDelay) })
	panel.AddChild(ui.labeledRow("Delay:     ", ui.delayButton))

	ui.resButton = ui.cycleButton(func() {
		ui.opts.ResolutionIndex = (ui.opts.ResolutionIndex + 1) % len(cfg.SettingsMenu.Resolutions)
	})
	panel.AddChild(ui.labeledRow("Window:    ", ui.resButton))

	ui.addressInput = ui.textInput(160, "localhost:7373")
	ui.addressInput.SetText(ui.opts.PeerAddress)
	panel.AddChild(ui.labeledRow("Address:  ", ui.addressInput))

	ui.portInput = ui.textInput(80, "7373")
	ui.portInput.SetText(strconv.FormatUint(uint64(ui.opts.Port), 10))
	panel.AddChild(ui.labeledRow("Port:      ", ui.portInput))

	return panel
}

func (ui *ConnectUI) labeledRow(label string, w widget.PreferredSizeLocateableWidget) *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
	row.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(label, &ui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	))
	row.AddChild(w)
	return row
}

func (ui *ConnectUI) cycleButton(cycle func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 22)),
		widget.ButtonOpts.Image(buttonImage()),
		widget.ButtonOpts.Text("", &ui.normalFace, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 255, 255, 255},
			Hover:   color.RGBA{255, 255, 200, 255},
			Pressed: color.RGBA{200, 200, 200, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			cycle()
			ui.UpdateUI()
		}),
	)
}

func (ui *ConnectUI) textInput(width int, placeholder string) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 22)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(&ui.normalFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
}

func (ui *ConnectUI) buildButtons() *widget.Container {
	container := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
		)),
	)

	ui.startBtn = widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 28)),
		widget.ButtonOpts.Image(startButtonImage()),
		widget.ButtonOpts.Text("Start", &ui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{200, 255, 200, 255},
			Pressed:  color.RGBA{150, 200, 150, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			opts, err := ui.Options()
			if err != nil {
				ui.SetStatus(err.Error())
				return
			}
			if ui.OnStart != nil {
				ui.OnStart(opts)
			}
		}),
	)
	container.AddChild(ui.startBtn)

	quitButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(80, 28)),
		widget.ButtonOpts.Image(buttonImage()),
		widget.ButtonOpts.Text("Quit", &ui.normalFace, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 255, 255, 255},
			Hover:   color.RGBA{255, 200, 200, 255},
			Pressed: color.RGBA{200, 150, 150, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if ui.OnQuit != nil {
				ui.OnQuit()
			}
		}),
	)
	container.AddChild(quitButton)

	return container
}

// Options validates the text fields and returns the current selection.
func (ui *ConnectUI) Options() (ConnectOptions, error) {
	opts := ui.opts

	addr := strings.TrimSpace(ui.addressInput.GetText())
	if addr == "" {
		addr = "localhost:7373"
	}
	opts.PeerAddress = addr

	portText := strings.TrimSpace(ui.portInput.GetText())
	if portText != "" {
		port, err := strconv.ParseUint(portText, 10, 16)
		if err != nil {
			return opts, fmt.Errorf("invalid port %q", portText)
		}
		opts.Port = uint(port)
	}
	return opts, nil
}

// UpdateUI refreshes the cycle buttons and enables only the fields the
// selected mode uses.
func (ui *ConnectUI) UpdateUI() {
	setButtonText(ui.roleButton, roleLabel(ui.opts.Role))
	setButtonText(ui.playerButton, fmt.Sprintf("P%d", ui.opts.Player+1))
	setButtonText(ui.delayButton, fmt.Sprintf("%d frames", ui.opts.InputDelay))
	if i := ui.opts.ResolutionIndex; i >= 0 && i < len(cfg.SettingsMenu.Resolutions) {
		setButtonText(ui.resButton, cfg.SettingsMenu.Resolutions[i].Label)
	}

	online := ui.opts.Role != cfg.RoleLocal
	ui.playerButton.GetWidget().Disabled = !online
	ui.delayButton.GetWidget().Disabled = !online
	ui.addressInput.GetWidget().Disabled = ui.opts.Role != cfg.RoleJoin
	ui.portInput.GetWidget().Disabled = ui.opts.Role != cfg.RoleHost
}

func (ui *ConnectUI) SetStatus(msg string) {
	if ui.statusLabel != nil {
		ui.statusLabel.Label = msg
	}
}

func (ui *ConnectUI) Update() {
	ui.UI.Update()
}

func setButtonText(b *widget.Button, label string) {
	if b == nil {
		return
	}
	if textWidget := b.Text(); textWidget != nil {
		textWidget.Label = label
	}
}

func roleLabel(r cfg.Role) string {
	switch r {
	case cfg.RoleHost:
		return "Host online"
	case cfg.RoleJoin:
		return "Join online"
	default:
		return "Local 2P"
	}
}

func nextRole(r cfg.Role) cfg.Role {
	roles := cfg.SettingsMenu.Roles
	for i, role := range roles {
		if role == r {
			return roles[(i+1)%len(roles)]
		}
	}
	return roles[0]
}

func nextDelay(d int) int {
	delays := cfg.SettingsMenu.InputDelays
	for i, delay := range delays {
		if delay == d {
			return delays[(i+1)%len(delays)]
		}
	}
	return delays[0]
}

func buttonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.RGBA{60, 60, 80, 255}),
		Hover:    image.NewNineSliceColor(color.RGBA{80, 80, 100, 255}),
		Pressed:  image.NewNineSliceColor(color.RGBA{40, 40, 60, 255}),
		Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 40, 255}),
	}
}

func startButtonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.RGBA{40, 100, 40, 255}),
		Hover:    image.NewNineSliceColor(color.RGBA{60, 140, 60, 255}),
		Pressed:  image.NewNineSliceColor(color.RGBA{30, 80, 30, 255}),
		Disabled: image.NewNineSliceColor(color.RGBA{40, 50, 40, 255}),
	}
}

package device

import "fmt"

// Command identifies a panel firmware command. Values are fixed by the
// firmware and must not be renumbered.
type Command byte

const (
	CmdBrightness        Command = 0x00
	CmdPattern           Command = 0x01
	CmdBootloaderReset   Command = 0x02
	CmdSleep             Command = 0x03
	CmdAnimate           Command = 0x04
	CmdPanic             Command = 0x05
	CmdDraw              Command = 0x06
	CmdStageGreyCol      Command = 0x07
	CmdDrawGreyColBuffer Command = 0x08
	CmdSetText           Command = 0x09
	CmdStartGame         Command = 0x10
	CmdGameControl       Command = 0x11
	CmdGameStatus        Command = 0x12
	CmdSetColor          Command = 0x13
	CmdDisplayOn         Command = 0x14
	CmdInvertScreen      Command = 0x15
	CmdSetPixelColumn    Command = 0x16
	CmdFlushFramebuffer  Command = 0x17
	CmdClearRAM          Command = 0x18
	CmdScreenSaver       Command = 0x19
	CmdSetFPS            Command = 0x1A
	CmdSetPowerMode      Command = 0x1B
	CmdAnimationPeriod   Command = 0x1C
	CmdPWMFreq           Command = 0x1E
	CmdDebugMode         Command = 0x1F
	CmdVersion           Command = 0x20
)

var commandNames = map[Command]string{
	CmdBrightness:        "brightness",
	CmdPattern:           "pattern",
	CmdBootloaderReset:   "bootloader-reset",
	CmdSleep:             "sleep",
	CmdAnimate:           "animate",
	CmdPanic:             "panic",
	CmdDraw:              "draw",
	CmdStageGreyCol:      "stage-grey-column",
	CmdDrawGreyColBuffer: "draw-grey-column-buffer",
	CmdSetText:           "set-text",
	CmdStartGame:         "start-game",
	CmdGameControl:       "game-control",
	CmdGameStatus:        "game-status",
	CmdSetColor:          "set-color",
	CmdDisplayOn:         "display-on",
	CmdInvertScreen:      "invert-screen",
	CmdSetPixelColumn:    "set-pixel-column",
	CmdFlushFramebuffer:  "flush-framebuffer",
	CmdClearRAM:          "clear-ram",
	CmdScreenSaver:       "screen-saver",
	CmdSetFPS:            "set-fps",
	CmdSetPowerMode:      "set-power-mode",
	CmdAnimationPeriod:   "animation-period",
	CmdPWMFreq:           "pwm-freq",
	CmdDebugMode:         "debug-mode",
	CmdVersion:           "version",
}

// Valid reports whether c is part of the firmware command table.
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}

	return fmt.Sprintf("command(0x%02x)", byte(c))
}

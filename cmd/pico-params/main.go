//go:build rp2040 || rp2350

// Command pico-params runs the parameter registry on an RP2 board: snapshots
// live in a 24xx EEPROM on I2C0, the SHTC3 on the same bus seeds the unique
// identifier generator, and the maintenance console is on UART0.
package main

import (
	"context"
	"time"

	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"pulp-go/bus"
	"pulp-go/drivers/eeprom"
	"pulp-go/drivers/entropy"
	"pulp-go/random"
	"pulp-go/registry"
	"pulp-go/services/config"
	"pulp-go/services/console"
	"pulp-go/services/params"
	"pulp-go/storage"
	"pulp-go/types"
)

const (
	deviceID = "pico"

	// The backup starts on its own EEPROM page so a torn primary write never
	// touches it.
	primaryBase = 0
	backupBase  = 256

	consoleWait = 3 * time.Second
)

func fatal(msg string, err error) {
	for {
		println("Error: [main]", msg, err.Error())
		time.Sleep(5 * time.Second)
	}
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("Info: [main] boot")

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SCL:       machine.GP5,
		SDA:       machine.GP4,
		Frequency: 400_000,
	}); err != nil {
		fatal("i2c0", err)
	}

	rom, err := eeprom.New(i2c)
	if err != nil {
		fatal("eeprom", err)
	}
	primary, err := storage.NewRegion(rom, primaryBase, registry.SnapshotSize)
	if err != nil {
		fatal("primary region", err)
	}
	backup, err := storage.NewRegion(rom, backupBase, registry.SnapshotSize)
	if err != nil {
		fatal("backup region", err)
	}

	machine.InitADC()
	seq := random.New(entropy.Chain{entropy.NewSHTC3(i2c), entropy.NewAHT20(i2c), entropy.Die{}})

	b := bus.NewBus(8)
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	// Config goes first so its retained messages are waiting for the services.
	if err := config.NewConfigService().Publish(ctx, b.NewConnection("config")); err != nil {
		println("Warn: [main] config:", err.Error())
	}

	svc := params.NewService(b.NewConnection("params"))
	reg, err := registry.New(registry.Context{Notifier: svc, Random: seq}, primary, backup)
	if err != nil {
		fatal("registry", err)
	}
	svc.Start(ctx, reg)

	uart := uartx.UART0
	switch err := uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}); {
	case err != nil:
		println("Warn: [main] uart0:", err.Error(), "- console not started")
	case !console.Wanted(ctx, b.NewConnection("boot"), consoleWait):
		println("Info: [main] console disabled by features")
	default:
		console.New(b.NewConnection("console"), uart).Start(ctx)
	}

	mon := b.NewConnection("monitor").Subscribe(params.TopicState)
	for m := range mon.Channel() {
		if st, ok := m.Payload.(types.ParamState); ok {
			println("Info: [main] params", st.State, "ready", st.Ready)
		}
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/esimov/seamcarver"
	"github.com/esimov/seamcarver/utils"
)

const helpBanner = `
┌─┐┌─┐┌─┐┌┬┐┌─┐┌─┐┬─┐┬  ┬┌─┐┬─┐
└─┐├┤ ├─┤││││  ├─┤├┬┘└┐┌┘├┤ ├┬┘
└─┘└─┘┴ ┴┴ ┴└─┘┴ ┴┴└─ └┘ └─┘┴└─

Content aware image resize by seam carving.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	newWidth    = flag.Int("width", 0, "New width")
	newHeight   = flag.Int("height", 0, "New height")
	percentage  = flag.Bool("perc", false, "Reduce image by percentage")
	square      = flag.Bool("square", false, "Reduce image to square dimensions")
	scale       = flag.Bool("scale", false, "Proportional scaling before carving")
	debug       = flag.Bool("debug", false, "Mark the removed seams instead of removing them")
	seamColor   = flag.String("color", seamcarver.DefaultSeamColor, "Seam color in debug mode")
	energyMap   = flag.Bool("energy", false, "Output the energy map of the source image")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *newWidth == 0 && *newHeight == 0 && !*energyMap {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a width, height or percentage for image rescaling!", utils.ErrorMessage))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ SEAMCARVER", utils.StatusMessage),
		utils.DecorateText("⇢ resizing image (be patient, it may take a while)...", utils.DefaultMessage),
	)
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*80, true)
	spinner.StopMsg = fmt.Sprintf("%s %s\n",
		utils.DecorateText("⚡ SEAMCARVER", utils.StatusMessage),
		utils.DecorateText("⇢ done ✔", utils.SuccessMessage),
	)

	proc := &seamcarver.Processor{
		NewWidth:   *newWidth,
		NewHeight:  *newHeight,
		Percentage: *percentage,
		Square:     *square,
		Scale:      *scale,
		Debug:      *debug,
		SeamColor:  *seamColor,
		EnergyMap:  *energyMap,
	}

	op := &seamcarver.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
		Spinner:  spinner,
		Status:   printStatus,
	}

	now := time.Now()
	if err := proc.Execute(ctx, op); err != nil {
		spinner.RestoreCursor()
		log.Fatalf("%s%s",
			utils.DecorateText("\nError resizing the image: ", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// printStatus displays the relevant information about the image resizing process.
func printStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n%s %s\n",
			utils.DecorateText("Failed to resize:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("%s (%v)", filepath.Base(fname), err), utils.DefaultMessage),
		)
		return
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
	}
}

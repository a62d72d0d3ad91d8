package theme

import (
	"fmt"

	"github.com/dioramalab/diorama/internal/refs"
)

const gardenStyle = `
Isometric 3D view from above at a 45 degree angle,
a square earthen platform tile floating in space,
the platform shows a layered soil cross-section on its edges (dark rich soil, small pebbles, visible roots),
the platform has rounded organic edges like a chunk of lifted earth,
claymation stop-motion style,
BRIGHT MAGENTA SOLID BACKGROUND (#FF00FF) for easy background removal,
soft studio lighting with a gentle shadow beneath the platform,
highly detailed clay textures,
NO glass container, NO jar, NO enclosure - just the floating earth platform.
The platform is about 15cm x 15cm square.
`

// Garden is a 200-day jade plant growing from a single seed into a small
// inhabited world. Every day is generated independently; the solid magenta
// backdrop exists purely for the background-removal pass.
func Garden() *Theme {
	return &Theme{
		Name:      "garden",
		Summary:   "jade plant from seed to miniature world on a floating earth tile",
		Days:      200,
		BaseStyle: gardenStyle,
		Refs:      refs.None{},
		RefHint:   "none (each day independent)",
		Phases: []Phase{
			{Start: 1, End: 5, Describe: gardenSeed},
			{Start: 6, End: 15, Describe: gardenSprout},
			{Start: 16, End: 35, Describe: gardenYoungPlant},
			{Start: 36, End: 60, Describe: gardenMaturing},
			{Start: 61, End: 100, Describe: gardenFlowering},
			{Start: 101, End: 150, Describe: gardenVillage},
			{Start: 151, End: 200, Describe: gardenThriving},
		},
	}
}

func gardenSeed(day int) string {
	stages := map[int]string{
		1: "perfectly round brown seed, no cracks yet, freshly planted",
		2: "seed with a tiny hairline crack beginning to form",
		3: "seed with a small visible crack, moisture beading on the shell",
		4: "seed with a pronounced crack, a hint of green inside",
		5: "seed splitting open, tiny white root tip emerging",
	}
	return fmt.Sprintf(`ON TOP of the floating earth platform (Day %d - Seed Stage):
- rich brown soil covering the top surface, freshly watered and slightly dark
- a single seed in the center: %s
- the seed is about 1cm and clearly visible
- a few tiny moss patches starting at the soil edges
- two or three small colorful pebbles decorating the soil`, day, stages[day])
}

func gardenSprout(day int) string {
	heightMM := (day - 5) * 8
	var desc, leaves string
	switch {
	case day <= 8:
		desc = fmt.Sprintf("tiny pale green sprout, %dmm tall, seed shell still attached at the base", heightMM)
		leaves = "no leaves yet, just the sprout tip"
	case day <= 11:
		desc = fmt.Sprintf("small green sprout, %dmm tall, seed shell fallen off", heightMM)
		leaves = fmt.Sprintf("%d tiny round cotyledon leaves unfolding", day-8)
	default:
		desc = fmt.Sprintf("young sprout, %dmm tall, stem thickening slightly", heightMM)
		leaves = fmt.Sprintf("2 cotyledons fully open, %d tiny true leaves starting to form", day-10)
	}
	return fmt.Sprintf(`ON TOP of the floating earth platform (Day %d - Sprouting Stage):
- rich brown soil with moss patches around the edges
- in the center: %s
- leaves: %s
- the sprout is reaching toward the light
- small pebbles and moss on the soil surface, a tiny dewdrop on the sprout`, day, desc, leaves)
}

func gardenYoungPlant(day int) string {
	heightCM := 3.0 + float64(day-15)*0.25
	leafPairs := 2 + (day-15)/4
	stem := "thin green stem"
	if day >= 30 {
		stem = "noticeably woody lower stem, green upper growth"
	} else if day >= 25 {
		stem = "stem starting to become woody at the base"
	}
	extras := ""
	if day >= 25 {
		extras += "\n- a tiny snail has appeared on the soil, exploring"
	}
	if day >= 30 {
		extras += "\n- the first tiny red-capped mushroom growing near the base"
	}
	return fmt.Sprintf(`ON TOP of the floating earth platform (Day %d - Young Plant Stage):
- rich soil with lush moss patches and small pebbles
- a young jade plant (Crassula ovata) growing in the center:
  - about %.1fcm tall with %d pairs of thick fleshy oval leaves
  - %s
  - vibrant green leaves, some with reddish edges%s`, day, heightCM, leafPairs, stem, extras)
}

func gardenMaturing(day int) string {
	heightCM := 8.0 + float64(day-35)*0.2
	branches := 2 + (day-36)/5
	extras := ""
	if day >= 40 {
		extras += "\n- a small garden gnome with a red hat has taken up residence beside the plant"
	}
	if day >= 48 {
		extras += "\n- a tiny wooden bench the gnome built next to a stepping-stone path"
	}
	if day >= 55 {
		extras += "\n- a miniature watering can resting against the trunk"
	}
	return fmt.Sprintf(`ON TOP of the floating earth platform (Day %d - Maturing Stage):
- a maturing jade plant, about %.1fcm tall with %d woody branches
- dense clusters of fleshy green leaves, trunk visibly thickening
- moss lawn spreading across the soil, mushrooms in a small cluster%s`, day, heightCM, branches, extras)
}

func gardenFlowering(day int) string {
	blossoms := (day - 60) / 2
	extras := ""
	if day >= 70 {
		extras += "\n- a tiny pond with clay water in one corner, ringed by pebbles"
	}
	if day >= 85 {
		extras += "\n- fireflies (tiny glowing clay dots) hovering near the canopy"
	}
	return fmt.Sprintf(`ON TOP of the floating earth platform (Day %d - Flowering Stage):
- the jade plant is now a miniature tree, about %.0fcm tall with a rounded canopy
- %d small star-shaped white-pink blossoms scattered through the foliage
- the gnome tends a tiny flowerbed of clay tulips along one edge
- butterflies resting on the leaves%s`, day, 13.0+float64(day-60)*0.1, blossoms, extras)
}

func gardenVillage(day int) string {
	houses := 1 + (day-101)/12
	extras := ""
	if day >= 115 {
		extras += "\n- a rope bridge of twigs connecting two branches"
	}
	if day >= 130 {
		extras += "\n- a tiny windmill turning at the platform edge"
	}
	return fmt.Sprintf(`ON TOP of the floating earth platform (Day %d - Village Stage):
- the jade tree is large and established, canopy shading half the platform
- %d tiny mushroom-roofed houses built around the trunk
- the gnome now has company: small clay critters going about village life
- lantern strings with warm glowing dots between the houses
- the pond has a miniature wooden dock%s`, day, houses, extras)
}

func gardenThriving(day int) string {
	extras := ""
	if day >= 170 {
		extras += "\n- a festival banner of tiny flags strung across the canopy"
	}
	if day >= 190 {
		extras += "\n- the entire village lit warmly, celebration in full swing"
	}
	return fmt.Sprintf(`ON TOP of the floating earth platform (Day %d - Thriving World):
- a magnificent ancient jade tree with a massive textured trunk
- full blossom coverage, aerial roots hanging from the lowest branches
- the complete village: houses, dock, windmill, bridge, lantern strings
- gnome and critters visible everywhere, tending the world they built
- the platform edges overgrown with moss and trailing flowers%s
Day %d - a complete thriving world under an ancient tree.`, day, extras, day)
}

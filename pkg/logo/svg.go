package logo

import (
	"fmt"
	"strings"
)

// viewBox is the side length of the square logo artwork.
const viewBox = 452

// paths holds the outline of each logo glyph as absolute SVG path data.
var paths = []string{
	`M330.121460,254.796204
C307.491425,254.151566 285.343414,253.567734 263.202637,252.780243
C261.113892,252.705948 258.054535,251.967896 257.161591,250.496658
C246.766235,233.368851 236.700653,216.040909 225.991516,197.819443
C268.282654,199.028076 309.596222,200.208755 351.912506,201.418091
C348.604645,195.474121 345.201965,190.242630 342.684265,184.615219
C339.442139,177.368622 334.319427,175.659653 326.619263,175.584732
C259.979553,174.936234 193.343765,173.858856 126.708397,172.808517
C103.722488,172.446213 80.740845,171.809006 57.757973,171.267166
C55.830860,171.221725 53.909184,170.945618 51.244442,170.711655
C57.073185,160.339035 62.512863,150.524612 68.077393,140.781494
C84.737709,111.610451 101.640038,82.575005 117.997269,53.235386
C121.946938,46.150951 126.409836,43.749088 134.736420,43.798351
C198.377808,44.174915 262.023315,43.922436 325.666962,43.697712
C329.990326,43.682449 332.403778,44.759457 334.613983,48.752537
C342.978516,63.864262 351.880310,78.678177 360.537018,93.629021
C362.017578,96.186073 363.282776,98.867828 365.231750,102.615456
C291.460541,101.337242 218.649048,100.075661 145.641327,98.810677
C143.132523,105.454651 140.708511,111.874130 137.766190,119.666199
C155.734665,119.666199 172.513184,119.579773 189.290573,119.681694
C250.436996,120.053139 311.583008,120.499924 372.729492,120.857697
C375.492310,120.873856 377.069214,121.695030 378.551788,124.256081
C396.702454,155.610016 414.873474,186.954926 433.442749,218.061279
C436.905090,223.861252 437.728790,228.446869 433.859192,234.255417
C429.447296,240.877991 425.970520,248.117645 421.761047,254.886169
C420.967957,256.161346 418.628052,257.181183 417.029388,257.143829
C388.218872,256.470459 359.412628,255.616364 330.121460,254.796204
z`,
	`M213.967560,222.069977
C219.796127,232.070572 225.624695,242.071167 232.033966,253.068085
C189.827209,251.972061 148.543549,250.899994 106.643951,249.811935
C111.193527,258.184906 115.303772,266.066101 119.826202,273.703186
C120.446800,274.751160 123.111519,274.905640 124.839104,274.935364
C191.815994,276.086823 258.794159,277.163544 325.771667,278.278442
C352.752289,278.727509 379.731842,279.242157 407.581818,279.742615
C403.596283,286.707764 399.941895,293.079010 396.301697,299.458405
C377.263855,332.822205 358.090271,366.110107 339.332153,399.630493
C336.232147,405.170166 332.788025,407.073486 326.508423,407.056488
C262.023163,406.882111 197.536728,406.959045 133.051605,407.212921
C127.802299,407.233582 125.269150,405.464844 122.796722,400.965210
C114.078995,385.099579 104.790604,369.547729 95.743294,353.862640
C94.942474,352.474335 94.320473,350.982819 93.384399,349.066223
C103.136482,349.066223 112.201294,348.956238 121.262604,349.087860
C143.914246,349.416840 166.564285,349.855652 189.214966,350.250031
C228.700378,350.937500 268.186340,351.596252 307.670227,352.362976
C311.055328,352.428680 313.043304,351.801575 314.105225,348.063812
C315.628784,342.701141 318.014557,337.583466 320.311218,331.639282
C311.785217,331.639282 303.844177,331.691803 295.903961,331.631073
C226.415115,331.099731 156.926697,330.497498 87.437065,330.115234
C82.751862,330.089447 80.226738,328.427582 77.989120,324.546997
C59.731121,292.883087 41.355331,261.286682 22.873739,229.752747
C20.947845,226.466721 20.821711,223.932388 22.796799,220.623901
C27.391272,212.927628 31.654354,205.028748 35.883427,197.121948
C37.199501,194.661377 38.562416,193.669647 41.631851,193.766983
C91.922882,195.362122 142.219879,196.768768 192.515640,198.214798
C196.449234,198.327896 200.733276,197.663651 202.667603,203.337402
C206.647781,209.958710 210.307663,216.014343 213.967560,222.069977
z`,
}

// SVG returns the logo document filled with color.
func SVG(color string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg version="1.1" xmlns="http://www.w3.org/2000/svg" width="100%%" viewBox="0 0 %d %d">`, viewBox, viewBox)
	b.WriteByte('\n')
	for _, d := range paths {
		fmt.Fprintf(&b, "<path fill=%q stroke=\"none\" d=\"\n%s\"/>\n", color, d)
	}
	b.WriteString("</svg>\n")
	return b.String()
}

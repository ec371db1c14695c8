package station

// stations is the built-in directory. Order matters: Find returns the first
// name match, so more popular stations come first.
var stations = []Station{
	{Name: "Sfera FM", URL: "https://sfera.live24.gr/sfera4132"},
	{Name: "Rythmos 94.9", URL: "https://rythmos.live24.gr/rythmos"},
	{Name: "Athens DeeJay 95.2", URL: "https://netradio.live24.gr/athensdeejay"},
	{Name: "Kiss FM 92.9", URL: "https://kissfm.live24.gr/kissfmathens"},
	{Name: "Dromos FM 89.8", URL: "https://stream.rcs.revma.com/10q3enqxbfhvv"},
	{Name: "MAD Radio 106.2", URL: "http://mediaserver.mad.tv/stream"},
	{Name: "Radio ELGreko", URL: "https://s3.free-shoutcast.com/stream/18192"},
	{Name: "ERA Sport", URL: "https://radiostreaming.ert.gr/ert-erasport"},
	{Name: "Easy 97.2", URL: "https://easy972.live24.gr/easy972"},
	{Name: "Music 89.2", URL: "https://netradio.live24.gr/music892"},
	{Name: "Skai 100.3", URL: "https://skai.live24.gr/skai1003"},
	{Name: "Sport FM", URL: "https://sportfm.live24.gr/sportfm7712"},
	{Name: "Real FM", URL: "https://realfm.live24.gr/realfm"},
	{Name: "Galaxy 92.0", URL: "https://galaxy.live24.gr/galaxy9292"},
	{Name: "Crete FM 87.5", URL: "https://tls-chrome.live24.gr/1361?http://s3.onweb.gr:8878/;"},
	{Name: "105.5 Rock", URL: "https://tls-chrome.live24.gr/304?http://radio.1055rock.gr:30000/1055"},
	{Name: "Avanti FM", URL: "https://netradio.live24.gr/radiohotlips"},
	{Name: "Blackman Radio", URL: "https://cloud.123hosting.gr:2200/radio/black9326?mp=/stream"},
	{Name: "Derti 98.6", URL: "https://derti.live24.gr/derty1000"},
	{Name: "En Lefko 87.7", URL: "https://stream.rcs.revma.com/trm75ret4c3vv"},
	{Name: "Hot FM", URL: "https://hotfm.live24.gr/hotfm"},
	{Name: "Lampsi", URL: "https://az11.yesstreaming.net:8140/radio.mp3"},
}

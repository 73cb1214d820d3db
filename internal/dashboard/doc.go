// Package dashboard is the terminal front end.
//
// Model composes the animated header, the wallet panel, the artist actions
// that submit contract calls, the stat tiles, the royalty cards and the live
// activity waveform. Every waveform is a waveform.Panel driven by tea.Tick;
// quitting stops them all so nothing is scheduled after the program exits.
package dashboard

package pathmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPath(t *testing.T) {
	m := New("/home/user/GDrive")

	tests := []struct {
		name   string
		remote string
		exp    string
	}{
		{name: "root marker", remote: "/", exp: "/home/user/GDrive"},
		{name: "plain remote path", remote: "/Work/notes.txt", exp: "/home/user/GDrive/Work/notes.txt"},
		{name: "relative remote path", remote: "Work/notes.txt", exp: "/home/user/GDrive/Work/notes.txt"},
		{name: "already local", remote: "/home/user/GDrive/Work/notes.txt", exp: "/home/user/GDrive/Work/notes.txt"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, m.LocalPath(test.remote))
		})
	}
}

func TestRemotePath(t *testing.T) {
	m := New("/home/user/GDrive")

	tests := []struct {
		name  string
		local string
		exp   string
	}{
		{name: "under the root", local: "/home/user/GDrive/Work/notes.txt", exp: "/Work/notes.txt"},
		{name: "outside the root", local: "/tmp/other.txt", exp: "/tmp/other.txt"},
		{name: "already remote", local: "/Work/notes.txt", exp: "/Work/notes.txt"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, m.RemotePath(test.local))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	m := New("/home/user/GDrive")

	t.Run("local survives a round trip", func(t *testing.T) {
		for _, p := range []string{
			"/home/user/GDrive/doc.txt",
			"/home/user/GDrive/a/b/c",
			"/home/user/GDrive",
		} {
			assert.Equal(t, p, m.LocalPath(m.RemotePath(p)))
		}
	})

	t.Run("remote survives a round trip", func(t *testing.T) {
		for _, p := range []string{"/doc.txt", "/a/b/c"} {
			assert.Equal(t, p, m.RemotePath(m.LocalPath(p)))
		}
	})

	t.Run("both directions are idempotent", func(t *testing.T) {
		local := m.LocalPath("/Work/notes.txt")
		assert.Equal(t, local, m.LocalPath(local))

		remote := m.RemotePath("/home/user/GDrive/Work/notes.txt")
		assert.Equal(t, remote, m.RemotePath(remote))
	})

	t.Run("root identity", func(t *testing.T) {
		assert.Equal(t, "/home/user/GDrive", m.LocalPath("/"))
	})
}

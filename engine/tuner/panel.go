package tuner

// panelHTML is the embedded control panel. It connects back to /ws, renders a
// slider group per light plus the post-processing controls, and re-renders on
// every state broadcast.
const panelHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Walkview Tuner</title>
<style>
  body { font-family: monospace; background: #1b1b1f; color: #ddd; margin: 20px; }
  h1 { font-size: 16px; }
  fieldset { border: 1px solid #444; margin-bottom: 12px; }
  legend { color: #9cf; }
  label { display: inline-block; width: 110px; }
  .row { margin: 4px 0; }
  input[type=range] { width: 220px; vertical-align: middle; }
  select, input[type=color] { background: #2a2a2f; color: #ddd; border: 1px solid #555; }
  #err { color: #f66; min-height: 1.2em; }
</style>
</head>
<body>
<h1>Walkview Tuner</h1>
<div id="err"></div>
<div id="render"></div>
<div id="lights"></div>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
let state = null;

ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.error) { document.getElementById("err").textContent = msg.error; return; }
  document.getElementById("err").textContent = "";
  state = msg;
  renderPanel();
};

function send(cmd) { ws.send(JSON.stringify(cmd)); }

function slider(label, value, min, max, step, oninput) {
  return '<div class="row"><label>' + label + '</label>' +
    '<input type="range" min="' + min + '" max="' + max + '" step="' + step +
    '" value="' + value + '" oninput="' + oninput + '"> ' +
    '<span>' + Number(value).toFixed(2) + '</span></div>';
}

function renderPanel() {
  const r = state.render;
  let html = '<fieldset><legend>post-processing</legend>';
  html += slider("exposure", r.exposure, 0, 4, 0.01, "send({op:'setExposure',value:+this.value})");
  html += slider("bloom", r.bloomStrength, 0, 3, 0.01, "send({op:'setBloom',value:+this.value})");
  html += slider("vignette", r.vignetteStrength, 0, 1, 0.01, "send({op:'setVignette',value:+this.value})");
  html += slider("outline", r.outlineStrength, 0, 5, 0.01, "send({op:'setOutline',value:+this.value})");
  html += '<div class="row"><label>tone mapping</label><select onchange="send({op:\'setToneMapping\',toneMapping:this.value})">';
  for (const name of ["None", "Linear", "Reinhard", "Cineon", "ACESFilmic"]) {
    html += '<option' + (name === r.toneMapping ? ' selected' : '') + '>' + name + '</option>';
  }
  html += '</select></div>';
  html += '<div class="row"><button onclick="send({op:\'applyPresets\'})">apply name presets</button></div>';
  html += '</fieldset>';
  document.getElementById("render").innerHTML = html;

  let lh = '';
  for (const l of state.lights) {
    lh += '<fieldset><legend>' + l.name + ' (' + l.type + ')</legend>';
    lh += lightSliders(l);
    lh += '</fieldset>';
  }
  document.getElementById("lights").innerHTML = lh;
}

function lightSliders(l) {
  function upd(field) {
    return "sendLight('" + l.name + "', '" + field + "', +this.value)";
  }
  let html = slider("intensity", l.intensity, 0, 50, 0.1, upd("intensity"));
  html += slider("distance", l.distance, 0, 100, 0.5, upd("distance"));
  html += slider("decay", l.decay, 0, 4, 0.05, upd("decay"));
  if (l.type === "spot") {
    html += slider("angle", l.angle, 1, 90, 0.5, upd("angle"));
    html += slider("penumbra", l.penumbra, 0, 1, 0.01, upd("penumbra"));
  }
  html += '<div class="row"><label>visible</label><input type="checkbox"' +
    (l.visible ? ' checked' : '') + ' onchange="sendLight(\'' + l.name + '\', \'visible\', this.checked)"></div>';
  return html;
}

function sendLight(name, field, value) {
  const l = state.lights.find(x => x.name === name);
  if (!l) return;
  l[field] = value;
  send({op: "setLight", name: name, light: l});
}
</script>
</body>
</html>
`
